// Package googletasks implements service.Gateway over the Google Tasks API.
//
// All operations work on the user's default task list. The session token is
// used as an OAuth2 access token; obtaining and refreshing it is left to the
// caller.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskctl/internal/logging"
	"taskctl/internal/service"
	"taskctl/internal/session"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	endpoint  string
	transport http.RoundTripper
	logger    *logrus.Logger
	timeout   time.Duration
}

// WithEndpoint overrides the API base URL (used by tests).
func WithEndpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

// WithTransport sets the base round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout bounds each API call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Client implements service.Gateway using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	authed  bool
	log     *logrus.Entry
	timeout time.Duration
}

// New creates a Google Tasks gateway authenticated with sess.
// Without a valid session every call fails with service.ErrAuth.
func New(ctx context.Context, sess *session.Session, opts ...Option) (*Client, error) {
	o := options{
		transport: http.DefaultTransport,
		logger:    logging.Discard(),
		timeout:   APITimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		o.timeout = APITimeout
	}

	rt := o.transport
	if sess.Valid() {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}),
			Base:   o.transport,
		}
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(&http.Client{Transport: rt})}
	if o.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(o.endpoint))
	}
	svc, err := tasks.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		authed:  sess.Valid(),
		log:     o.logger.WithFields(logrus.Fields{"component": "gateway", "backend": "googletasks"}),
		timeout: o.timeout,
	}, nil
}

// ListTasks returns every task of the default list, completed ones included.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	const op = "list tasks"
	if err := c.checkAuth(op); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(DefaultListID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, toTask(t))
			}
			return nil
		})
	if err != nil {
		return nil, c.wrapError(op, err)
	}
	c.log.WithField("count", len(result)).Debug("tasks listed")
	return result, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id service.ID) (service.Task, error) {
	op := "get task " + id.String()
	if err := c.checkAuth(op); err != nil {
		return service.Task{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t, err := c.svc.Tasks.Get(DefaultListID, id.String()).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError(op, err)
	}
	return toTask(t), nil
}

// CreateTask inserts a task at the top of the default list.
func (c *Client) CreateTask(ctx context.Context, title string, completed bool) (service.Task, error) {
	const op = "create task"
	if err := c.checkAuth(op); err != nil {
		return service.Task{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t, err := c.svc.Tasks.Insert(DefaultListID, &tasks.Task{
		Title:  title,
		Status: status(completed),
	}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError(op, err)
	}
	return toTask(t), nil
}

// UpdateTask sets title and status. A partial patch is completed from a GET.
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

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := &tasks.Task{
		Title:  *patch.Title,
		Status: status(*patch.Completed),
	}
	if !*patch.Completed {
		// Reopening requires clearing the completion timestamp.
		body.NullFields = []string{"Completed"}
	}
	t, err := c.svc.Tasks.Patch(DefaultListID, id.String(), body).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError(op, err)
	}
	return toTask(t), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	op := "delete task " + id.String()
	if err := c.checkAuth(op); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(DefaultListID, id.String()).Context(ctx).Do(); err != nil {
		return c.wrapError(op, err)
	}
	return nil
}

func (c *Client) checkAuth(op string) error {
	if !c.authed {
		return service.NewError(service.KindAuth, op, "not logged in")
	}
	return nil
}

func toTask(t *tasks.Task) service.Task {
	return service.Task{
		ID:        service.ID(t.Id),
		Title:     t.Title,
		Completed: t.Status == statusCompleted,
	}
}

func status(completed bool) string {
	if completed {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError maps API errors to service error kinds.
func (c *Client) wrapError(op string, err error) error {
	c.log.WithError(err).WithField("op", op).Debug("request failed")

	if errors.Is(err, context.DeadlineExceeded) {
		return &service.Error{Kind: service.KindTransport, Op: op, Message: "request timed out", Err: err}
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &service.Error{Kind: service.KindTransport, Op: op, Err: err}
	}

	kind := service.KindTransport
	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = service.KindAuth
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		kind = service.KindValidation
	case http.StatusNotFound:
		kind = service.KindNotFound
	}
	msg := gerr.Message
	if msg == "" {
		msg = fmt.Sprintf("%d %s", gerr.Code, http.StatusText(gerr.Code))
	}
	return &service.Error{Kind: kind, Op: op, Status: gerr.Code, Message: msg, Err: err}
}
