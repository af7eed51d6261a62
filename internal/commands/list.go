package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskctl/internal/exitcode"
	"taskctl/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. It is also what `taskctl` runs with no args.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskctl list" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := env.Store.Refresh(ctx)
	if err != nil {
		return report(errOut, err)
	}

	empty := "no tasks found"
	if env.Config.Quiet {
		empty = ""
	}
	output.FormatTasks(out, tasks, empty)
	return exitcode.Success
}
