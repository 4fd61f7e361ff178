package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Submit(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Lookup(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Digest(args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, verify <file>, lookup <digest>, digest <file>, exit"
	helpLoggedIn  = "Available commands: submit <file> [email], verify <file>, (l)ist, lookup <digest>, history, digest <file>, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the LinkProof CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and passes the rest as arguments. Commands that need an account are
// refused until the user logs in. A failing command prints its error and the
// loop carries on. The loop exits on scanner EOF, on "exit"/"quit", or when
// ctx is cancelled.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("lp %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "verify":
			err = a.Verify(ctx, args)

		case "lookup":
			err = a.Lookup(ctx, args)

		case "digest":
			err = a.Digest(args)

		case "submit", "l", "list", "history", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			switch cmd {
			case "submit":
				err = a.Submit(ctx, args)
			case "l", "list":
				err = a.List(ctx)
			case "history":
				err = a.History(ctx)
			case "logout":
				err = a.Logout(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
