// Package cli parses the command line and wires config, session, backend
// and store for the selected command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"taskctl/internal/commands"
	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/logging"
	"taskctl/internal/metrics"
	"taskctl/internal/service"
	"taskctl/internal/session"
	"taskctl/internal/store"
)

// Deps are the shared pieces a backend client is built with.
type Deps struct {
	Logger    *logrus.Logger
	Transport http.RoundTripper
}

// Factory builds backend clients for one run.
// Used to inject the backend during dispatch.
type Factory struct {
	// Gateway creates the task gateway for a stored session.
	Gateway func(ctx context.Context, cfg *config.Config, sess *session.Session, deps Deps) (service.Gateway, error)

	// Auth creates the client used by login and register.
	Auth func(cfg *config.Config, deps Deps) (service.Authenticator, error)
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry    *commands.Registry
	factory     Factory
	in          io.Reader
	interactive bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInput sets where passwords and shell lines are read from.
// interactive enables line editing and hidden password prompts.
func WithInput(r io.Reader, interactive bool) Option {
	return func(d *Dispatcher) {
		d.in = r
		d.interactive = interactive
	}
}

// NewDispatcher creates a new dispatcher with the given registry and backend factory.
func NewDispatcher(registry *commands.Registry, factory Factory, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       strings.NewReader(""),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)

	// Common flags
	var configDir, apiURL string
	var quiet, debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api-url", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	positionalArgs, err := commands.ParseFlags(fs, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	log := logging.New(errOut, cfg.LogLevel, cfg.Debug)
	deps := Deps{Logger: log, Transport: http.DefaultTransport}

	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New()
		deps.Transport = m.InstrumentTransport(http.DefaultTransport)
		defer func() {
			if err := m.WriteFile(cfg.MetricsFile); err != nil {
				log.WithError(err).Warn("failed to write metrics file")
			}
		}()
	}

	env := &commands.Env{
		Config:      cfg,
		Session:     session.NewFile(cfg.SessionPath()),
		Commands:    d.registry,
		Log:         log,
		In:          d.in,
		Interactive: d.interactive,
		NewAuth: func() (service.Authenticator, error) {
			if d.factory.Auth == nil {
				return nil, errors.New("login is not supported by this backend")
			}
			return d.factory.Auth(cfg, deps)
		},
	}

	if cmd.NeedsAuth() {
		sess, err := env.Session.Load()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(errOut, "error: not logged in (run: taskctl login)")
			} else {
				fmt.Fprintf(errOut, "error: %v\n", err)
			}
			return exitcode.AuthError
		}

		if d.factory.Gateway == nil {
			fmt.Fprintln(errOut, "error: backend error: no backend configured")
			return exitcode.BackendError
		}
		gw, err := d.factory.Gateway(ctx, cfg, sess, deps)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}

		env.Store = store.New(gw, store.WithLogger(log))
		if m != nil {
			unsubscribe := env.Store.Subscribe(m.Observe)
			defer unsubscribe()
		}
		log.WithFields(logrus.Fields{"backend": cfg.Backend, "user": sess.Username}).Debug("session loaded")
	}

	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}
