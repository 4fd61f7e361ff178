// Package cli provides the interactive LinkProof command-line client.
//
// It wires configuration, the local SQLite store, the gRPC client and an
// interactive REPL. On start it resumes the stored session if there is one,
// then watches server connectivity in the background.
//
// Commands:
//   - register, login, logout
//   - submit <file> [email]: record a proof of existence
//   - verify <file>: ask whether the file was ever recorded
//   - list: the caller's receipts on the server
//   - lookup <digest>: the public proof for a digest
//   - history: receipts obtained from this machine
//   - digest <file>: fingerprint a file without contacting the server
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
