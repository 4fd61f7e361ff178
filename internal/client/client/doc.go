// Package client contains the CLI's connection to a LinkProof server and its
// local database.
//
// GRPCClient implements Client over the linkproof.v1.LinkProof service. It
// keeps the access and refresh tokens from the last login, attaches the access
// token to every call, and transparently refreshes it once when the server
// reports it expired. gRPC status codes are mapped to the sentinel errors in
// errors.go so callers can use errors.Is.
//
// InitDatabase opens the local SQLite file, applies the embedded goose
// migrations and returns the session and history repositories.
package client
