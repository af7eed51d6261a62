package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"taskctl/internal/exitcode"
	"taskctl/internal/service"
	"taskctl/internal/store"
)

// HistoryFile is the shell history file inside the config directory.
const HistoryFile = "history"

func init() {
	Register(&ShellCmd{})
}

// ShellCmd runs commands against one long-lived task snapshot.
type ShellCmd struct{}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return nil }
func (c *ShellCmd) Synopsis() string  { return "Interactive session" }
func (c *ShellCmd) Usage() string     { return "taskctl shell [common flags]" }
func (c *ShellCmd) NeedsAuth() bool   { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	lines, err := newLineReader(env, out, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	defer lines.Close()

	log := env.logger().WithField("component", "shell")
	updatePrompt := func() { lines.SetPrompt(prompt(env.Store.Tasks())) }
	unsubscribe := env.Store.Subscribe(store.Callbacks{
		OnAdded:     func(service.Task) { updatePrompt() },
		OnUpdated:   func(service.Task) { updatePrompt() },
		OnRemoved:   func(service.ID) { updatePrompt() },
		OnRefreshed: func([]service.Task) { updatePrompt() },
		OnError: func(kind service.Kind, msg string) {
			log.WithField("kind", kind.String()).Debug(msg)
		},
	}.Listener())
	defer unsubscribe()

	// Load the list on entry, the way `list` does.
	if code := (&ListCmd{}).Run(ctx, env, nil, out, errOut); code == exitcode.AuthError {
		return code
	}

	for ctx.Err() == nil {
		line, err := lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}

		fields, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "exit", "quit":
			return exitcode.Success
		}

		if stop := c.exec(ctx, env, fields, out, errOut); stop {
			break
		}
	}
	return exitcode.Success
}

// exec runs one shell line. It reports whether the shell should end.
func (c *ShellCmd) exec(ctx context.Context, env *Env, fields []string, out, errOut io.Writer) bool {
	cmd, ok := env.registry().Find(fields[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", fields[0])
		return false
	}

	switch cmd.(type) {
	case *ShellCmd, *LoginCmd, *RegisterCmd:
		fmt.Fprintf(errOut, "error: %s is not available in the shell\n", cmd.Name())
		return false
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	positional, err := ParseFlags(fs, fields[1:])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return false
	}

	cmd.Run(ctx, env, positional, out, errOut)

	// Logging out ends the session the shell was started with.
	_, isLogout := cmd.(*LogoutCmd)
	return isLogout
}

func prompt(tasks []service.Task) string {
	open := 0
	for _, t := range tasks {
		if !t.Completed {
			open++
		}
	}
	return fmt.Sprintf("taskctl [%d/%d]> ", open, len(tasks))
}

// lineReader is the part of *readline.Instance the shell uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

func newLineReader(env *Env, out, errOut io.Writer) (lineReader, error) {
	if !env.Interactive {
		return &plainReader{env: env}, nil
	}

	var history string
	if err := env.Config.EnsureDir(); err == nil {
		history = filepath.Join(env.Config.Dir, HistoryFile)
	}

	names := env.registry().Names()
	items := make([]readline.PrefixCompleterInterface, 0, len(names)+2)
	for _, name := range append(names, "exit", "quit") {
		items = append(items, readline.PcItem(name))
	}

	return readline.NewEx(&readline.Config{
		Prompt:          prompt(nil),
		HistoryFile:     history,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          out,
		Stderr:          errOut,
	})
}

// plainReader reads shell lines from env.In without echo or prompt.
type plainReader struct {
	env *Env
}

func (r *plainReader) Readline() (string, error) { return r.env.readLine() }
func (r *plainReader) SetPrompt(string)          {}
func (r *plainReader) Close() error              { return nil }

// splitArgs splits a shell line into words. Single or double quotes group
// words; there are no escapes.
func splitArgs(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				words = append(words, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in: %s", line)
	}
	if inToken {
		words = append(words, cur.String())
	}
	return words, nil
}
