package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"taskctl/internal/service"
	"taskctl/internal/store"
	tu "taskctl/internal/testutil"
)

func TestObserve_StoreEvents(t *testing.T) {
	m := New()
	gw := tu.NewFakeGateway()
	gw.Seed("a", false)
	s := store.New(gw)
	s.Subscribe(m.Observe)
	ctx := context.Background()

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := s.Add(ctx, "b", false); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := s.Add(ctx, " ", false); err == nil {
		t.Fatal("expected validation error")
	}

	if got := testutil.ToFloat64(m.events.WithLabelValues("refreshed")); got != 1 {
		t.Errorf("expected 1 refreshed event, got %v", got)
	}
	if got := testutil.ToFloat64(m.events.WithLabelValues("added")); got != 1 {
		t.Errorf("expected 1 added event, got %v", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("add", "validation")); got != 1 {
		t.Errorf("expected 1 validation failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.snapshot); got != 2 {
		t.Errorf("expected snapshot gauge 2, got %v", got)
	}
}

func TestInstrumentTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	m := New()
	client := &http.Client{Transport: m.InstrumentTransport(nil)}
	for _, path := range []string{"/ok", "/ok", "/missing"} {
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("200", "get")); got != 2 {
		t.Errorf("expected 2 successful requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("404", "get")); got != 1 {
		t.Errorf("expected 1 not found request, got %v", got)
	}
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Errorf("expected no requests in flight, got %v", got)
	}
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.Observe(store.Event{Kind: store.EventRemoved, Snapshot: []service.Task{}})

	path := filepath.Join(t.TempDir(), "taskctl.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), `taskctl_store_events_total{kind="removed"} 1`) {
		t.Errorf("expected removed counter in output, got:\n%s", data)
	}
}
