package httpapi

import (
	"context"
	"net/http"

	"taskctl/internal/service"
)

// AuthClient implements service.Authenticator against /login and /register.
type AuthClient struct {
	conn *conn
}

// NewAuthClient creates an unauthenticated client for baseURL.
func NewAuthClient(baseURL string, opts ...Option) (*AuthClient, error) {
	o := buildOptions(opts)
	c, err := newConn(baseURL, o.transport, o)
	if err != nil {
		return nil, err
	}
	return &AuthClient{conn: c}, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token.
func (a *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	const op = "login"

	var resp struct {
		Token string `json:"token"`
	}
	body := credentials{Username: username, Password: password}
	if err := a.conn.do(ctx, op, http.MethodPost, []string{"login"}, body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", service.NewError(service.KindAuth, op, "server returned no token")
	}
	return resp.Token, nil
}

// Register creates a user account.
func (a *AuthClient) Register(ctx context.Context, username, password string) error {
	body := credentials{Username: username, Password: password}
	return a.conn.do(ctx, "register", http.MethodPost, []string{"register"}, body, nil)
}
