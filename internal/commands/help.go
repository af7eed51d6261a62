package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskctl/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskctl help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskctl                                          List all tasks
  taskctl list [common flags]                      List all tasks (alias: ls)
  taskctl show [common flags] <ref>                Show one task (alias: view)
  taskctl add [common flags] [--done] <title...>   Create a task (alias: create)
  taskctl edit [common flags] [--title <title>] [--done|--open] <ref>
  taskctl done [common flags] <ref>                Toggle completion (alias: toggle)
  taskctl rm [common flags] <ref>                  Delete a task (alias: delete)
  taskctl login [common flags] [--password <p>] [--token <t>] <username>
  taskctl register [common flags] <username>       Create an account (alias: signup)
  taskctl logout [common flags]
  taskctl shell [common flags]                     Interactive session
  taskctl help
  taskctl version

Task references:
  <id>       Server-assigned task id, as printed by list
  #<n>       Position in the list (#1 is the first task)

Common flags:
  --config <dir>    Override config directory
  --api-url <url>   Override the task API base URL
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr

Flags go before arguments; use -- before a title that starts with -.
`
