package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Test seams for user-facing output. In tests, replace them with stubs.
var printlnFn = fmt.Println
var outW io.Writer = os.Stdout

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Balance(ctx context.Context) error
	Generate(ctx context.Context) error
	Edit(ctx context.Context) error
	History(ctx context.Context) error
	Legacy(ctx context.Context) error
	Select(ctx context.Context) error
	DeleteEntry(ctx context.Context) error
	ClearHistory(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the imagepoints CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Command handlers print their own errors; the loop only surfaces them so
// a failed command never kills the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("imagepoints %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, balance, (g)enerate, edit, history, legacy, select, delete, clear, logout, exit")
			} else {
				printlnFn("Available commands: login, status, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "status":
			err = a.Status(ctx)

		case "balance":
			err = a.Balance(ctx)

		case "g", "generate", "gen":
			err = a.Generate(ctx)

		case "edit":
			err = a.Edit(ctx)

		case "history":
			err = a.History(ctx)

		case "legacy":
			err = a.Legacy(ctx)

		case "select":
			err = a.Select(ctx)

		case "delete":
			err = a.DeleteEntry(ctx)

		case "clear":
			err = a.ClearHistory(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
