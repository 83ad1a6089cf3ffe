package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	when  time.Time
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(ctx context.Context) error  { return f.record("whoami") }
func (f *fakeExec) Book(ctx context.Context) error    { return f.record("book") }
func (f *fakeExec) Status(ctx context.Context) error  { return f.record("status") }
func (f *fakeExec) History(ctx context.Context) error { return f.record("history") }
func (f *fakeExec) Counts(ctx context.Context) error  { return f.record("counts") }
func (f *fakeExec) Stats(ctx context.Context) error   { return f.record("stats") }
func (f *fakeExec) Chat(ctx context.Context, id string) error {
	return f.record("chat", id)
}
func (f *fakeExec) Send(ctx context.Context, id, text string) error {
	return f.record("send", id, text)
}
func (f *fakeExec) Read(ctx context.Context, id string) error { return f.record("read", id) }
func (f *fakeExec) Events(ctx context.Context) error          { return f.record("events") }
func (f *fakeExec) Schedule(ctx context.Context, when time.Time) error {
	f.when = when
	return f.record("schedule")
}
func (f *fakeExec) Reschedule(ctx context.Context, id string, when time.Time) error {
	f.when = when
	return f.record("reschedule", id)
}
func (f *fakeExec) Confirm(ctx context.Context, id string) error { return f.record("confirm", id) }
func (f *fakeExec) Cancel(ctx context.Context, id string) error  { return f.record("cancel", id) }
func (f *fakeExec) Notifications(ctx context.Context) error      { return f.record("notifications") }
func (f *fakeExec) Seen(ctx context.Context, id string) error    { return f.record("seen", id) }

// capturePrints swaps printlnFn for a recorder.
func capturePrints(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func reader(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	printed := capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, reader(
		"help",
		"book",
		"login",
		"help",
		"whoami",
		"book",
		"status",
		"chat u2",
		"send u2 hello there",
		"read u2",
		"schedule 2025-03-01T15:00:00Z",
		"reschedule e1 2025-03-02T10:00:00Z",
		"confirm e1",
		"cancel e1",
		"notifications",
		"seen n1",
		"history",
		"counts",
		"stats",
		"events",
		"foobar",
		"logout",
		"exit",
		"book",
	))

	require.Equal(t, []string{
		"login", "whoami", "book", "status", "chat", "send", "read",
		"schedule", "reschedule", "confirm", "cancel", "notifications", "seen",
		"history", "counts", "stats", "events", "logout",
	}, exec.calls)

	require.Equal(t, []string{"u2", "hello there"}, exec.args[5])
	require.Equal(t, []string{"e1"}, exec.args[8])
	require.Equal(t, time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), exec.when.UTC())

	out := strings.Join(*printed, "\n")
	require.Contains(t, out, "r15 status> ")
	require.Contains(t, out, helpLoggedOut)
	require.Contains(t, out, helpLoggedIn)
	require.Contains(t, out, "Please login first")
	require.Contains(t, out, "Unknown command: foobar")
	require.Contains(t, out, "Bye!")
}

func TestRunREPL_Usage(t *testing.T) {
	printed := capturePrints(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, reader(
		"chat",
		"send u2",
		"schedule tomorrow",
		"seen",
	))

	require.Empty(t, exec.calls)
	out := strings.Join(*printed, "\n")
	require.Contains(t, out, usage["chat"])
	require.Contains(t, out, usage["send"])
	require.Contains(t, out, `invalid time "tomorrow"`)
	require.Contains(t, out, usage["seen"])
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, reader("register"))
	require.Equal(t, []string{"register"}, exec.calls)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, reader())
	require.Empty(t, exec.calls)
}

func TestCommandTablesAgree(t *testing.T) {
	for cmd, n := range commandArity {
		if n > 0 {
			require.Contains(t, usage, cmd, "command %q takes arguments but has no usage line", cmd)
		}
	}
}
