package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskctl/internal/exitcode"
	"taskctl/internal/output"
	"taskctl/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	title string
	done  bool
	open  bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title or completion" }
func (c *EditCmd) Usage() string     { return "taskctl edit [--title <title>] [--done|--open] <ref>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.open, "open", false, "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if c.done && c.open {
		fmt.Fprintln(errOut, "error: cannot use both --done and --open")
		return exitcode.UserError
	}

	ref, ok := parseRef(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	var patch service.Patch
	if c.title != "" {
		patch = patch.WithTitle(c.title)
	}
	if c.done {
		patch = patch.WithCompleted(true)
	} else if c.open {
		patch = patch.WithCompleted(false)
	}
	if patch.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --done or --open)")
		return exitcode.UserError
	}

	id, err := resolveID(ctx, env.Store, ref)
	if err != nil {
		return report(errOut, err)
	}
	task, err := env.Store.Edit(ctx, id, patch)
	if err != nil {
		return report(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
