package commands

import (
	"context"
	"flag"
	"io"

	"taskctl/internal/exitcode"
	"taskctl/internal/output"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles, so running it on a
// completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "taskctl done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, ok := parseRef(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	task, err := resolveTask(ctx, env.Store, ref)
	if err != nil {
		return report(errOut, err)
	}
	task, err = env.Store.ToggleCompletion(ctx, task)
	if err != nil {
		return report(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
