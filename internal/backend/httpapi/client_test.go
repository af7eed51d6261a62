package httpapi_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"taskctl/internal/backend/httpapi"
	"taskctl/internal/logging"
	"taskctl/internal/service"
	"taskctl/internal/session"
	"taskctl/internal/testutil"
)

func newClient(t *testing.T, api *testutil.FakeAPI, opts ...httpapi.Option) *httpapi.Client {
	t.Helper()
	sess, err := session.New(api.IssueToken("alice"), "alice")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	c, err := httpapi.New(api.URL(), sess, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestClient_CRUD(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, api)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, "Buy milk", false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	want := service.Task{ID: "1", Title: "Buy milk", Completed: false}
	if created != want {
		t.Errorf("expected %+v, got %+v", want, created)
	}

	got, err := c.GetTask(ctx, "1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	updated, err := c.UpdateTask(ctx, "1", service.Patch{}.WithCompleted(true))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Completed || updated.Title != "Buy milk" {
		t.Errorf("unexpected update result %+v", updated)
	}

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0] != updated {
		t.Errorf("expected [%+v], got %+v", updated, tasks)
	}

	if err := c.DeleteTask(ctx, "1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := c.DeleteTask(ctx, "1"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestClient_ListEmpty(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, api)

	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, api)

	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	reqs := api.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Path != "/api/tasks" {
		t.Errorf("expected /api/tasks, got %q", reqs[0].Path)
	}
	if reqs[0].Authorization != "Bearer token-alice-1" {
		t.Errorf("unexpected authorization header %q", reqs[0].Authorization)
	}
	if reqs[0].RequestID == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestClient_PartialUpdateReadsFirst(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.SeedTask("Buy milk", true)
	c := newClient(t, api)

	got, err := c.UpdateTask(context.Background(), "1", service.Patch{}.WithTitle("Buy oat milk"))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	want := service.Task{ID: "1", Title: "Buy oat milk", Completed: true}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	reqs := api.Requests()
	if len(reqs) != 2 || reqs[0].Method != http.MethodGet || reqs[1].Method != http.MethodPut {
		t.Errorf("expected GET then PUT, got %+v", reqs)
	}
}

func TestClient_FullUpdateSkipsRead(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.SeedTask("Buy milk", false)
	c := newClient(t, api)

	patch := service.Patch{}.WithTitle("Buy milk").WithCompleted(true)
	if _, err := c.UpdateTask(context.Background(), "1", patch); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if reqs := api.Requests(); len(reqs) != 1 {
		t.Errorf("expected a single PUT, got %+v", reqs)
	}
}

func TestClient_ErrorKinds(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, api)
	ctx := context.Background()

	_, err := c.GetTask(ctx, "99")
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if err.Error() != "get task 99: not found: task not found" {
		t.Errorf("unexpected message %q", err.Error())
	}

	_, err = c.UpdateTask(ctx, "99", service.Patch{}.WithTitle("x").WithCompleted(false))
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	_, err = c.CreateTask(ctx, "  ", false)
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	api.FailWith(http.StatusInternalServerError)
	_, err = c.ListTasks(ctx)
	if !errors.Is(err, service.ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
	var apiErr *service.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500 in error, got %#v", err)
	}
}

func TestClient_InvalidToken(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	sess, _ := session.New("forged", "mallory")
	c, err := httpapi.New(api.URL(), sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.ListTasks(context.Background())
	if !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestClient_NoSessionIsCallerError(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c, err := httpapi.New(api.URL(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.ListTasks(context.Background())
	if !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected auth error, got %v", err)
	}
	if len(api.Requests()) != 0 {
		t.Errorf("expected no network calls, got %+v", api.Requests())
	}
}

func TestClient_TransportFailure(t *testing.T) {
	sess, _ := session.New("tok", "alice")
	// Nothing listens on port 1.
	c, err := httpapi.New("http://127.0.0.1:1/api/", sess, httpapi.WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.ListTasks(context.Background())
	if !errors.Is(err, service.ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := httpapi.New("ftp://example.com/api/", nil); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestClient_LogsRequests(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	var buf bytes.Buffer
	c := newClient(t, api, httpapi.WithLogger(logging.New(&buf, logrus.DebugLevel.String(), false)))

	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	logs := buf.String()
	for _, want := range []string{"request sent", "response received", "status=200", "path=/api/tasks", "request_id="} {
		if !strings.Contains(logs, want) {
			t.Errorf("expected log to contain %q, got %q", want, logs)
		}
	}
}

func TestAuthClient_LoginRegister(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	a, err := httpapi.NewAuthClient(api.URL())
	if err != nil {
		t.Fatalf("new auth client: %v", err)
	}
	ctx := context.Background()

	if err := a.Register(ctx, "bob", "secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := a.Register(ctx, "bob", "secret"); !errors.Is(err, service.ErrValidation) {
		t.Errorf("expected validation error for duplicate user, got %v", err)
	}

	token, err := a.Login(ctx, "bob", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Error("expected token")
	}

	_, err = a.Login(ctx, "bob", "wrong")
	if !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected auth error, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid credentials") {
		t.Errorf("expected server message, got %q", err.Error())
	}
}
