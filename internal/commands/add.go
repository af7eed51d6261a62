package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskctl/internal/exitcode"
	"taskctl/internal/output"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	done bool
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskctl add [--done] <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.done, "done", false, "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	task, err := env.Store.Add(ctx, title, c.done)
	if err != nil {
		return report(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
