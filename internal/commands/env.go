package commands

import (
	"bufio"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"taskctl/internal/config"
	"taskctl/internal/logging"
	"taskctl/internal/service"
	"taskctl/internal/session"
	"taskctl/internal/store"
)

// Env is everything a command may use during one run.
type Env struct {
	Config *config.Config

	// Store is the task snapshot for the stored session. Nil for commands
	// that do not need auth.
	Store *store.Store

	// Session persists the login.
	Session *session.File

	// NewAuth creates the client used by login and register.
	NewAuth func() (service.Authenticator, error)

	// Commands is the registry the shell dispatches into.
	Commands *Registry

	Log *logrus.Logger

	// In supplies passwords and shell input when Interactive is false.
	In io.Reader

	// Interactive enables line editing and hidden password prompts.
	Interactive bool

	reader *bufio.Reader
}

func (e *Env) logger() *logrus.Logger {
	if e.Log == nil {
		return logging.Discard()
	}
	return e.Log
}

func (e *Env) registry() *Registry {
	if e.Commands == nil {
		return DefaultRegistry
	}
	return e.Commands
}

func (e *Env) input() *bufio.Reader {
	if e.reader == nil {
		in := e.In
		if in == nil {
			in = strings.NewReader("")
		}
		e.reader = bufio.NewReader(in)
	}
	return e.reader
}

// readLine reads one line from In without its line terminator.
// io.EOF is returned only if nothing was read.
func (e *Env) readLine() (string, error) {
	line, err := e.input().ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
