package commands

import (
	"context"
	"flag"
	"io"

	"taskctl/internal/exitcode"
	"taskctl/internal/output"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command: the detail view of one task,
// always read fresh from the server.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"view"} }
func (c *ShowCmd) Synopsis() string  { return "Show one task" }
func (c *ShowCmd) Usage() string     { return "taskctl show <ref>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, ok := parseRef(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	id, err := resolveID(ctx, env.Store, ref)
	if err != nil {
		return report(errOut, err)
	}
	task, err := env.Store.View(ctx, id)
	if err != nil {
		return report(errOut, err)
	}

	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
