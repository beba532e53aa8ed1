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
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Tag(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error
	Folder(ctx context.Context, args []string) error
	Task(ctx context.Context, args []string) error
	Analyze(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Pending(ctx context.Context) error
	History(ctx context.Context) error
	Import(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Backups(ctx context.Context, args []string) error
}

// runREPL starts the read–eval–print loop.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pad %s> ", statusFn()))
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
			printHelp(a.isLoggedIn())

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "add":
			_ = a.Add(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "delete", "del":
			_ = a.Delete(ctx, args)

		case "tag":
			_ = a.Tag(ctx, args)

		case "move":
			_ = a.Move(ctx, args)

		case "folder", "folders":
			_ = a.Folder(ctx, args)

		case "task", "tasks":
			_ = a.Task(ctx, args)

		case "analyze":
			_ = a.Analyze(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "pending":
			_ = a.Pending(ctx)

		case "history":
			_ = a.History(ctx)

		case "import":
			_ = a.Import(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "backups":
			_ = a.Backups(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func printHelp(loggedIn bool) {
	printlnFn("Diaries:  (l)ist [query], add [title], show <id>, edit <id>, delete <id>, tag <id> <tags...>, move <id> [folder]")
	printlnFn("Folders:  folder [add <name> [parent]|del <id>]")
	printlnFn("Tasks:    task [add <title>|done <id>|up <id>|down <id>|del <id>]")
	printlnFn("Data:     import <file> [replace], export <file>, backups [restore <n>], analyze <id>")
	if loggedIn {
		printlnFn("Sync:     sync, pending, history, logout")
	} else {
		printlnFn("Sync:     login (local changes sync after signing in)")
	}
	printlnFn("Other:    help, exit")
}
