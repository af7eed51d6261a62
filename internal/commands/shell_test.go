package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/service"
	"taskctl/internal/session"
	"taskctl/internal/store"
	"taskctl/internal/testutil"
)

func runShell(t *testing.T, gw *testutil.FakeGateway, input string) (*Env, string, string, int) {
	t.Helper()
	dir := t.TempDir()
	env := &Env{
		Config:  &config.Config{Dir: dir},
		Session: session.NewFile(dir + "/session.yaml"),
		Store:   store.New(gw),
		In:      strings.NewReader(input),
	}
	var out, errOut bytes.Buffer
	code := (&ShellCmd{}).Run(context.Background(), env, nil, &out, &errOut)
	return env, out.String(), errOut.String(), code
}

func TestShell_SharesSnapshot(t *testing.T) {
	gw := testutil.NewFakeGateway()
	input := strings.Join([]string{
		"add Buy milk",
		"",
		`edit --title "Buy oat milk" 1`,
		"done #1",
		"list",
		"rm 1",
		"exit",
		"list",
	}, "\n")

	env, stdout, stderr, code := runShell(t, gw, input)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "no tasks found\n" +
		"   1  [ ] Buy milk\n" +
		"   1  [ ] Buy oat milk\n" +
		"   1  [x] Buy oat milk\n" +
		"   1  [x] Buy oat milk\n" +
		"ok\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if env.Store.Len() != 0 {
		t.Errorf("expected empty snapshot, got %d", env.Store.Len())
	}

	// One refresh on entry plus the explicit list; edits go through the snapshot.
	lists := 0
	for _, c := range gw.Calls() {
		if c == "list" {
			lists++
		}
	}
	if lists != 2 {
		t.Errorf("expected 2 list calls, got %d (%v)", lists, gw.Calls())
	}
}

func TestShell_Errors(t *testing.T) {
	gw := testutil.NewFakeGateway()
	input := strings.Join([]string{
		"frobnicate",
		"login alice",
		"show 9",
		"add --bogus x",
		`add "unterminated`,
	}, "\n")

	_, _, stderr, code := runShell(t, gw, input)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{
		"error: unknown command: frobnicate\n",
		"error: login is not available in the shell\n",
		"error: get task 9: not found",
		"error: unknown flag: -bogus\n",
		"error: unterminated quote in: add \"unterminated\n",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected stderr to contain %q, got %q", want, stderr)
		}
	}
}

func TestShell_LogoutEnds(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.Seed("Buy milk", false)

	env, stdout, _, _ := runShell(t, gw, "logout\nlist\n")

	if !strings.HasSuffix(stdout, "not logged in\n") {
		t.Errorf("expected shell to end after logout, got %q", stdout)
	}
	if env.Store.Len() != 0 {
		t.Error("expected snapshot reset on logout")
	}
}

func TestShell_AuthFailureOnEntry(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.ListTasksErr = service.NewError(service.KindAuth, "list tasks", "unauthorized")

	_, _, _, code := runShell(t, gw, "list\n")
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
}

func TestPrompt(t *testing.T) {
	tasks := []service.Task{
		{ID: "1", Title: "a"},
		{ID: "2", Title: "b", Completed: true},
	}
	if got := prompt(tasks); got != "taskctl [1/2]> " {
		t.Errorf("expected %q, got %q", "taskctl [1/2]> ", got)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"add Buy milk", []string{"add", "Buy", "milk"}},
		{`edit --title "Buy oat milk" 3`, []string{"edit", "--title", "Buy oat milk", "3"}},
		{`add 'it''s'`, []string{"add", "its"}},
		{`add ""`, []string{"add", ""}},
		{"  \t ", nil},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		if err != nil {
			t.Errorf("splitArgs(%q): %v", tt.line, err)
			continue
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitArgs(%q) = %q, expected %q", tt.line, got, tt.want)
		}
	}
}
