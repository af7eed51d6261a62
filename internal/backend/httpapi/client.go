// Package httpapi implements service.Gateway over the task HTTP API.
package httpapi

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"taskctl/internal/service"
	"taskctl/internal/session"
)

const tasksPath = "tasks"

// Client implements service.Gateway using the task HTTP API.
type Client struct {
	conn   *conn
	authed bool
}

// New creates a gateway for baseURL authenticated with sess.
// A nil or empty session is allowed but every call then fails with
// service.ErrAuth without touching the network.
func New(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	o := buildOptions(opts)

	rt := o.transport
	if sess.Valid() {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}),
			Base:   o.transport,
		}
	}

	c, err := newConn(baseURL, rt, o)
	if err != nil {
		return nil, err
	}
	return &Client{conn: c, authed: sess.Valid()}, nil
}

type taskBody struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// ListTasks returns all tasks in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	const op = "list tasks"
	if err := c.checkAuth(op); err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := c.conn.do(ctx, op, http.MethodGet, []string{tasksPath}, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id service.ID) (service.Task, error) {
	op := "get task " + id.String()
	if err := c.checkAuth(op); err != nil {
		return service.Task{}, err
	}

	var t service.Task
	if err := c.conn.do(ctx, op, http.MethodGet, []string{tasksPath, id.String()}, nil, &t); err != nil {
		return service.Task{}, err
	}
	return t, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, title string, completed bool) (service.Task, error) {
	const op = "create task"
	if err := c.checkAuth(op); err != nil {
		return service.Task{}, err
	}

	var t service.Task
	body := taskBody{Title: title, Completed: completed}
	if err := c.conn.do(ctx, op, http.MethodPost, []string{tasksPath}, body, &t); err != nil {
		return service.Task{}, err
	}
	return t, nil
}

// UpdateTask replaces the task's fields with the patched values.
// The API takes full bodies, so a partial patch is completed from a fresh GET.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, patch service.Patch) (service.Task, error) {
	op := "update task " + id.String()
	if err := c.checkAuth(op); err != nil {
		return service.Task{}, err
	}

	if !patch.IsFull() {
		cur, err := c.GetTask(ctx, id)
		if err != nil {
			return service.Task{}, err
		}
		patch = patch.Fill(cur)
	}

	var t service.Task
	body := taskBody{Title: *patch.Title, Completed: *patch.Completed}
	if err := c.conn.do(ctx, op, http.MethodPut, []string{tasksPath, id.String()}, body, &t); err != nil {
		return service.Task{}, err
	}
	return t, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	op := "delete task " + id.String()
	if err := c.checkAuth(op); err != nil {
		return err
	}
	return c.conn.do(ctx, op, http.MethodDelete, []string{tasksPath, id.String()}, nil, nil)
}

func (c *Client) checkAuth(op string) error {
	if !c.authed {
		return service.NewError(service.KindAuth, op, "not logged in")
	}
	return nil
}
