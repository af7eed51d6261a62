package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskctl/internal/logging"
	"taskctl/internal/service"
)

const (
	// DefaultTimeout is the timeout for API calls.
	DefaultTimeout = 5 * time.Second

	// RequestIDHeader carries a per-request id for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	maxBodySize = 1 << 20
)

// Option configures a Client or AuthClient.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	logger    *logrus.Logger
	timeout   time.Duration
}

// WithTransport sets the base round tripper (e.g. an instrumented one).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithLogger sets the logger for request/response records.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout bounds each API call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func buildOptions(opts []Option) options {
	o := options{
		transport: http.DefaultTransport,
		logger:    logging.Discard(),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	return o
}

// conn performs JSON round trips against the API base URL.
type conn struct {
	base    *url.URL
	http    *http.Client
	log     *logrus.Entry
	timeout time.Duration
}

func newConn(baseURL string, rt http.RoundTripper, o options) (*conn, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	return &conn{
		base:    base,
		http:    &http.Client{Transport: rt},
		log:     o.logger.WithField("component", "gateway"),
		timeout: o.timeout,
	}, nil
}

// do sends body as JSON and decodes a 2xx response into out (if non-nil).
// Failures are returned as *service.Error.
func (c *conn) do(ctx context.Context, op, method string, path []string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &service.Error{Kind: service.KindValidation, Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	target := c.base.JoinPath(path...)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return &service.Error{Kind: service.KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	entry := logging.WithRequestID(c.log, requestID).WithFields(logrus.Fields{
		"method": method,
		"path":   target.Path,
	})
	entry.Debug("request sent")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return transportError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	entry.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("response received")
	if err != nil {
		return transportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, data)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &service.Error{Kind: service.KindTransport, Op: op, Status: resp.StatusCode, Message: "invalid response body", Err: err}
		}
	}
	return nil
}

func transportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &service.Error{Kind: service.KindTransport, Op: op, Message: "request timed out", Err: err}
	}
	return &service.Error{Kind: service.KindTransport, Op: op, Err: err}
}

// statusError maps a non-2xx response to an error kind.
func statusError(op string, status int, body []byte) error {
	var kind service.Kind
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = service.KindAuth
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		kind = service.KindValidation
	case http.StatusNotFound:
		kind = service.KindNotFound
	default:
		kind = service.KindTransport
	}
	return &service.Error{Kind: kind, Op: op, Status: status, Message: errorMessage(status, body)}
}

// errorMessage extracts {"error": ...} or {"message": ...} from body,
// falling back to the raw text or the status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(body, &payload) == nil {
		for _, s := range []string{payload.Error, payload.Message, payload.Msg} {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	text := strings.TrimSpace(string(body))
	if text != "" && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		if len(text) > 200 {
			text = text[:200]
		}
		return text
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
