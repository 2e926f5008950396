package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dmitrijs2005/policyinsight/internal/client/guard"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	decide(ctx context.Context, p guard.Policy) guard.Decision
	isLoggedIn(ctx context.Context) bool

	Login(ctx context.Context) error
	Register(ctx context.Context) error
	FindID(ctx context.Context) error
	ResetPassword(ctx context.Context) error

	Me(ctx context.Context) error
	Edit(ctx context.Context) error
	VerifyPassword(ctx context.Context) error
	Delete(ctx context.Context) error
	Logout(ctx context.Context) error

	Status(ctx context.Context) error
}

type access int

const (
	accessAny access = iota
	accessGuest
	accessAuthenticated
)

type command struct {
	access access
	help   string
	run    func(a execIface, ctx context.Context) error
}

var commands = map[string]command{
	"login":          {accessGuest, "log in", execIface.Login},
	"register":       {accessGuest, "create an account", execIface.Register},
	"find-id":        {accessGuest, "recover your account id by email", execIface.FindID},
	"reset-password": {accessGuest, "set a new password without logging in", execIface.ResetPassword},

	"me":              {accessAuthenticated, "show your profile", execIface.Me},
	"edit":            {accessAuthenticated, "change phone or profile image", execIface.Edit},
	"verify-password": {accessAuthenticated, "confirm your password", execIface.VerifyPassword},
	"delete":          {accessAuthenticated, "delete your account", execIface.Delete},
	"logout":          {accessAuthenticated, "log out", execIface.Logout},

	"status": {accessAny, "show stored credentials", execIface.Status},
}

// redirectCommand maps guard redirect targets to the command that plays
// that page.
var redirectCommand = map[string]string{
	guard.DefaultLoginPath: "login",
	guard.DefaultHomePath:  "me",
}

func helpText(loggedIn bool) string {
	names := make([]string, 0, len(commands))
	for name, c := range commands {
		switch {
		case c.access == accessAny,
			c.access == accessGuest && !loggedIn,
			c.access == accessAuthenticated && loggedIn:
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return "Available commands: " + strings.Join(append(names, "help", "exit"), ", ")
}

// allowed evaluates the command's guard. It reports false, after telling the
// user where to go instead, when the command may not run now.
func allowed(ctx context.Context, a execIface, c command) bool {
	var p guard.Policy
	switch c.access {
	case accessGuest:
		p = guard.RequireGuest
	case accessAuthenticated:
		p = guard.RequireAuthenticated
	default:
		return true
	}

	d := a.decide(ctx, p)
	switch d.Outcome {
	case guard.Render:
		return true
	case guard.Pending:
		printlnFn("Session is still loading, try again.")
	case guard.Redirect:
		if p == guard.RequireGuest {
			printlnFn(fmt.Sprintf("You are already logged in. Try '%s'.", redirectCommand[d.Target]))
		} else {
			printlnFn(fmt.Sprintf("You need to log in first. Try '%s'.", redirectCommand[d.Target]))
		}
	}
	return false
}

// runREPL starts a simple read–eval–print loop for the Policy Insight CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches it through the command table after checking the command's
// guard. Unknown commands are reported back to the user. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Commands read their own prompts from the same reader, so the loop must
// not buffer ahead of them.
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pi %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name := parts[0]

		switch name {
		case "help":
			printlnFn(helpText(a.isLoggedIn(ctx)))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := commands[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if !allowed(ctx, a, c) {
			continue
		}
		if err := c.run(a, ctx); err != nil {
			printlnFn("error:", err)
		}
	}
}
