// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"taskctl/internal/service"
	"taskctl/internal/session"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown id, rejected input).
	UserError = 1

	// AuthError indicates a missing, invalid or expired session.
	AuthError = 2

	// BackendError indicates an API, network or other unexpected error.
	BackendError = 3
)

// For maps an error to the exit code a command should return.
func For(err error) int {
	if err == nil {
		return Success
	}
	if errors.Is(err, session.ErrNoSession) {
		return AuthError
	}
	switch service.KindOf(err) {
	case service.KindNotFound, service.KindValidation:
		return UserError
	case service.KindAuth:
		return AuthError
	default:
		return BackendError
	}
}
