package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
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
	Whoami(ctx context.Context) error
	Book(ctx context.Context) error
	Status(ctx context.Context) error
	History(ctx context.Context) error
	Counts(ctx context.Context) error
	Stats(ctx context.Context) error
	Chat(ctx context.Context, counterpartID string) error
	Send(ctx context.Context, counterpartID, text string) error
	Read(ctx context.Context, counterpartID string) error
	Events(ctx context.Context) error
	Schedule(ctx context.Context, when time.Time) error
	Reschedule(ctx context.Context, id string, when time.Time) error
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Notifications(ctx context.Context) error
	Seen(ctx context.Context, id string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: whoami, book, status, history, counts, stats, " +
		"chat <id>, send <id> <text>, read <id>, events, schedule <time>, " +
		"reschedule <eventId> <time>, confirm <eventId>, cancel <eventId>, " +
		"notifications, seen <notificationId>, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the Relate15 CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit". Times are RFC 3339, e.g. 2025-03-01T15:00:00Z.
//
// Command handlers report their own failures; the returned errors are only
// checked for argument problems so usage can be shown.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("r15 %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		}

		if !a.isLoggedIn() && cmd != "register" && cmd != "login" {
			if _, known := commandArity[cmd]; known {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn(err.Error())
		}
	}
}

// commandArity is the minimum number of arguments each command takes.
var commandArity = map[string]int{
	"register":      0,
	"login":         0,
	"logout":        0,
	"whoami":        0,
	"book":          0,
	"status":        0,
	"history":       0,
	"counts":        0,
	"stats":         0,
	"chat":          1,
	"send":          2,
	"read":          1,
	"events":        0,
	"schedule":      1,
	"reschedule":    2,
	"confirm":       1,
	"cancel":        1,
	"notifications": 0,
	"seen":          1,
}

var usage = map[string]string{
	"chat":       "Usage: chat <userId>",
	"send":       "Usage: send <userId> <text>",
	"read":       "Usage: read <userId>",
	"schedule":   "Usage: schedule <time, e.g. 2025-03-01T15:00:00Z>",
	"reschedule": "Usage: reschedule <eventId> <time, e.g. 2025-03-01T15:00:00Z>",
	"confirm":    "Usage: confirm <eventId>",
	"cancel":     "Usage: cancel <eventId>",
	"seen":       "Usage: seen <notificationId>",
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	n, ok := commandArity[cmd]
	if !ok {
		return fmt.Errorf("Unknown command: %s", cmd)
	}
	if len(args) < n {
		return errors.New(usage[cmd])
	}

	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.Whoami(ctx)
	case "book":
		return a.Book(ctx)
	case "status":
		return a.Status(ctx)
	case "history":
		return a.History(ctx)
	case "counts":
		return a.Counts(ctx)
	case "stats":
		return a.Stats(ctx)
	case "chat":
		return a.Chat(ctx, args[0])
	case "send":
		return a.Send(ctx, args[0], strings.Join(args[1:], " "))
	case "read":
		return a.Read(ctx, args[0])
	case "events":
		return a.Events(ctx)
	case "schedule":
		when, err := parseTime(args[0])
		if err != nil {
			return err
		}
		return a.Schedule(ctx, when)
	case "reschedule":
		when, err := parseTime(args[1])
		if err != nil {
			return err
		}
		return a.Reschedule(ctx, args[0], when)
	case "confirm":
		return a.Confirm(ctx, args[0])
	case "cancel":
		return a.Cancel(ctx, args[0])
	case "notifications":
		return a.Notifications(ctx)
	case "seen":
		return a.Seen(ctx, args[0])
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected RFC 3339 such as 2025-03-01T15:00:00Z", s)
	}
	return t, nil
}
