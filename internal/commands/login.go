package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"taskctl/internal/exitcode"
	"taskctl/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	password string
	token    string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the session" }
func (c *LoginCmd) Usage() string {
	return "taskctl login [--password <password>] [--token <token>] <username>"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.token, "token", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	username, ok := usernameArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	token := strings.TrimSpace(c.token)
	if token == "" {
		password := c.password
		if password == "" {
			var err error
			password, err = readPassword(env, errOut, "Password: ")
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return exitcode.UserError
			}
		}

		auth, err := env.NewAuth()
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		token, err = auth.Login(ctx, username, password)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.For(err)
		}
	}

	sess, err := session.New(token, username)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := env.Session.Save(sess); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}
	env.logger().WithField("username", username).Debug("session saved")

	if !env.Config.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", username)
	}
	return exitcode.Success
}

// usernameArg returns the single username argument.
func usernameArg(args []string, errOut io.Writer) (string, bool) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: username required")
		return "", false
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return "", false
	}
	return strings.TrimSpace(args[0]), true
}

// readPassword reads a password from the terminal without echo, or a
// plain line from env.In when not interactive.
func readPassword(env *Env, errOut io.Writer, prompt string) (string, error) {
	var password string
	if env.Interactive {
		rl, err := readline.NewEx(&readline.Config{Stdout: errOut, Stderr: errOut})
		if err != nil {
			return "", err
		}
		defer rl.Close()
		b, err := rl.ReadPassword(prompt)
		if err != nil {
			return "", errors.New("password required")
		}
		password = string(b)
	} else {
		line, err := env.readLine()
		if err != nil {
			return "", errors.New("password required")
		}
		password = line
	}

	if password == "" {
		return "", errors.New("password required")
	}
	return password, nil
}
