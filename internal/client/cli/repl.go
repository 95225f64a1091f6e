package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
	"github.com/dmitrijs2005/credebt/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb. Commands with auth set are offered only to a
// logged-in user.
type command struct {
	name  string
	args  string
	help  string
	auth  bool
	nargs int
	run   func(ctx context.Context, args []string) error
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
}

// runREPL starts a read-eval-print loop for the credebt CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to the matching entry of a.commands(). A command returning an
// error has it printed as "error: ..." and the loop goes on. The loop exits
// on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("credebt%s> ", prefixSpace(statusFn())))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			printHelp(a)
			continue
		}

		cmd, ok := lookup(a.commands(), name)
		switch {
		case !ok:
			printlnFn("Unknown command:", name)
		case cmd.auth && !a.isLoggedIn():
			printlnFn("Please log in first.")
		case len(args) < cmd.nargs:
			printlnFn(fmt.Sprintf("Usage: %s %s", cmd.name, cmd.args))
		default:
			if err := cmd.run(ctx, args); err != nil {
				printlnFn("error:", describe(err))
			}
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printHelp(a execIface) {
	loggedIn := a.isLoggedIn()
	printlnFn("Available commands:")
	for _, c := range a.commands() {
		if c.auth && !loggedIn {
			continue
		}
		usage := strings.TrimSpace(c.name + " " + c.args)
		printlnFn(fmt.Sprintf("  %-34s %s", usage, c.help))
	}
	printlnFn(fmt.Sprintf("  %-34s %s", "exit | quit", "leave the program"))
}

// describe adds a hint to errors the user can act on.
func describe(err error) string {
	var re *auth.RefreshError
	switch {
	case errors.As(err, &re):
		return "session expired, please log in again"
	case errors.Is(err, client.ErrUnauthorized):
		return err.Error() + " (try logging in again)"
	case errors.Is(err, client.ErrUnavailable):
		return err.Error() + " (is the server running?)"
	}
	return err.Error()
}

func (a *App) commands() []command {
	return []command{
		{name: "register", help: "create an account", run: a.register},
		{name: "login", help: "log in", run: a.login},
		{name: "forgot", help: "request a password reset email", run: a.forgot},
		{name: "reset", help: "set a new password with a reset token", run: a.reset},
		{name: "logout", help: "log out", auth: true, run: a.logout},
		{name: "whoami", help: "show the current user", auth: true, run: a.whoami},
		{name: "profile", help: "edit your name", auth: true, run: a.profile},

		{name: "booklets", help: "list booklets", auth: true, run: a.booklets},
		{name: "newbooklet", help: "create a booklet", auth: true, run: a.newBooklet},
		{name: "renamebooklet", args: "<id>", nargs: 1, help: "rename a booklet", auth: true, run: a.renameBooklet},
		{name: "delbooklet", args: "<id>", nargs: 1, help: "delete a booklet", auth: true, run: a.deleteBooklet},
		{name: "records", args: "<bookletID>", nargs: 1, help: "list records of a booklet", auth: true, run: a.records},
		{name: "addrecord", args: "<bookletID>", nargs: 1, help: "add income or expense", auth: true, run: a.addRecord},
		{name: "editrecord", args: "<bookletID> <recordID>", nargs: 2, help: "edit a record", auth: true, run: a.editRecord},
		{name: "delrecord", args: "<recordID>", nargs: 1, help: "delete a record", auth: true, run: a.deleteRecord},
		{name: "summary", args: "<bookletID> [YYYY-MM]", nargs: 1, help: "monthly totals", auth: true, run: a.summary},
		{name: "recent", args: "<bookletID>", nargs: 1, help: "totals of the last days", auth: true, run: a.recent},
		{name: "report", args: "<bookletID> daily|weekly|monthly", nargs: 2, help: "totals per period", auth: true, run: a.report},

		{name: "users", help: "list users", auth: true, run: a.users},
		{name: "search", args: "<phone>", nargs: 1, help: "find users by phone", auth: true, run: a.search},
		{name: "recentusers", help: "recently contacted users", auth: true, run: a.recentUsers},
		{name: "peer", args: "<userID>", nargs: 1, help: "conversation and balance with a user", auth: true, run: a.peer},
		{name: "send", args: "<userID>", nargs: 1, help: "record money sent to a user", auth: true, run: a.send},
		{name: "clear", args: "<userID> <amount>", nargs: 2, help: "ask a user to settle", auth: true, run: a.clear},
		{name: "accept", args: "<userID>", nargs: 1, help: "accept a clear request", auth: true, run: a.accept},
	}
}
