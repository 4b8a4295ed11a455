package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeExec) isLoggedIn(ctx context.Context) bool { return f.loggedIn }
func (f *fakeExec) Signup(ctx context.Context) error {
	f.record("signup", nil)
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login", nil)
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Whoami(ctx context.Context) error { f.record("whoami", nil); return nil }
func (f *fakeExec) List(ctx context.Context) error   { f.record("list", nil); return nil }
func (f *fakeExec) Add(ctx context.Context) error    { f.record("add", nil); return nil }
func (f *fakeExec) Toggle(ctx context.Context, args []string) error {
	f.record("done", args)
	return nil
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	f.record("delete", args)
	return nil
}
func (f *fakeExec) Search(ctx context.Context, args []string) error {
	f.record("search", args)
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout", nil)
	f.loggedIn = false
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) {}
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"add",
		"list",
		"done 3",
		"delete 4",
		"search buy milk",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "add", "list", "done", "delete", "search", "logout"}
	if len(exec.calls) != len(wantOrder) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, wantOrder)
	}
	for i, c := range exec.calls {
		if c != wantOrder[i] {
			t.Fatalf("commands order mismatch: got %v, want %v", exec.calls, wantOrder)
		}
	}

	if got := exec.args[3]; len(got) != 1 || got[0] != "3" {
		t.Fatalf("done args: got %v, want [3]", got)
	}
	if got := exec.args[5]; strings.Join(got, " ") != "buy milk" {
		t.Fatalf("search args: got %v, want [buy milk]", got)
	}
}

func TestRunREPL_AuthCommandsRefusedWhileLoggedIn(t *testing.T) {
	origPrint := printlnFn
	var lines []string
	printlnFn = func(a ...any) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("login\nsignup\nexit\n")
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	if len(exec.calls) != 0 {
		t.Fatalf("no handler should run while logged in: %v", exec.calls)
	}
	found := false
	for _, l := range lines {
		if strings.Contains(l, "Already logged in") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 'Already logged in' notice, got %v", lines)
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) {}
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("")))

	if len(exec.calls) != 0 {
		t.Fatalf("no calls expected: %v", exec.calls)
	}
}
