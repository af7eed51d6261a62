package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskctl/internal/exitcode"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct{}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string     { return "taskctl register <username>" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	username, ok := usernameArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	password, err := readPassword(env, errOut, "Password: ")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	confirm, err := readPassword(env, errOut, "Confirm password: ")
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if password != confirm {
		fmt.Fprintln(errOut, "error: passwords do not match")
		return exitcode.UserError
	}

	auth, err := env.NewAuth()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := auth.Register(ctx, username, password); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.For(err)
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "registered %s (run: taskctl login %s)\n", username, username)
	}
	return exitcode.Success
}
