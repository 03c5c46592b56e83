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
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	URL(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, add, (l)ist, open, status, sync, exit"
	helpLoggedIn  = "Available commands: add [path] [category], (l)ist, open <id>, url <id>, delete <id>, sync, status, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the vaultx CLI.
//
// It reads a line from reader, parses the first token as the
// command, passes the rest as arguments, and dispatches to methods on 'a'.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands prompt for missing arguments through the same reader, so a
// single buffered reader must own stdin. Errors returned by handlers are
// printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vx %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "add":
			err = a.Add(ctx, args)

		case "l", "list":
			err = a.List(ctx)

		case "delete", "rm":
			err = a.Delete(ctx, args)

		case "open":
			err = a.Open(ctx, args)

		case "url":
			err = a.URL(ctx, args)

		case "sync":
			err = a.Sync(ctx)

		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
		if readErr != nil {
			return
		}
	}
}
