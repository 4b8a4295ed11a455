package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Toggle(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the to-do CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The command set depends on the session state:
//
//	Logged out:
//	  - help : show available commands
//	  - signup : create an account
//	  - login  : authenticate
//	  - exit | quit : leave the program
//
//	Logged in:
//	  - help : show available commands
//	  - list : show the current to-do list
//	  - add  : add a to-do
//	  - done <id>   : toggle completion of a to-do
//	  - delete <id> : delete a to-do (asks for confirmation)
//	  - search <term> : filter the list by substring
//	  - whoami : show the logged-in account
//	  - logout : log out
//	  - exit | quit : leave the program
//
// Authentication commands are refused while logged in, and list commands
// while logged out.
// Errors returned by command handlers are not re-reported here; handlers
// print their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("todo> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: list, add, done <id>, delete <id>, search <term>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup":
			if a.isLoggedIn(ctx) {
				printlnFn("Already logged in.")
				continue
			}
			_ = a.Signup(ctx)

		case "login":
			if a.isLoggedIn(ctx) {
				printlnFn("Already logged in.")
				continue
			}
			_ = a.Login(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "done", "toggle":
			_ = a.Toggle(ctx, args)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
