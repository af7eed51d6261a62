package cli

import (
	"context"
	"errors"
	"fmt"

	"taskctl/internal/backend/googletasks"
	"taskctl/internal/backend/httpapi"
	"taskctl/internal/config"
	"taskctl/internal/service"
	"taskctl/internal/session"
)

// DefaultFactory selects the backend named by cfg.Backend.
func DefaultFactory() Factory {
	return Factory{
		Gateway: newGateway,
		Auth:    newAuth,
	}
}

func newGateway(ctx context.Context, cfg *config.Config, sess *session.Session, deps Deps) (service.Gateway, error) {
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, sess,
			googletasks.WithTransport(deps.Transport),
			googletasks.WithLogger(deps.Logger),
			googletasks.WithTimeout(cfg.CallTimeout()),
		)
	case config.BackendHTTP, "":
		return httpapi.New(cfg.BaseURL(), sess,
			httpapi.WithTransport(deps.Transport),
			httpapi.WithLogger(deps.Logger),
			httpapi.WithTimeout(cfg.CallTimeout()),
		)
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

func newAuth(cfg *config.Config, deps Deps) (service.Authenticator, error) {
	switch cfg.Backend {
	case config.BackendHTTP, "":
		return httpapi.NewAuthClient(cfg.BaseURL(),
			httpapi.WithTransport(deps.Transport),
			httpapi.WithLogger(deps.Logger),
			httpapi.WithTimeout(cfg.CallTimeout()),
		)
	case config.BackendGoogleTasks:
		return nil, errors.New("password login is not supported by the googletasks backend (use: taskctl login --token <access-token> <username>)")
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
