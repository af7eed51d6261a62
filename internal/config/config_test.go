package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, cfg.Dir)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected api url %q, got %q", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.Backend != BackendHTTP {
		t.Errorf("expected backend %q, got %q", BackendHTTP, cfg.Backend)
	}
	if cfg.SessionPath() != filepath.Join(dir, "session.yaml") {
		t.Errorf("unexpected session path %q", cfg.SessionPath())
	}
}

func TestNew_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "api_url: http://tasks.example:8080/api/\ntimeout: 2s\nbackend: googletasks\nmetrics_file: /tmp/m.prom\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://tasks.example:8080/api/" {
		t.Errorf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", cfg.Timeout)
	}
	if cfg.Backend != BackendGoogleTasks {
		t.Errorf("expected googletasks backend, got %q", cfg.Backend)
	}
	if cfg.MetricsFile != "/tmp/m.prom" {
		t.Errorf("unexpected metrics file %q", cfg.MetricsFile)
	}
}

func TestNew_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: http://file/api/\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("TASKCTL_API_URL", "http://env/api/")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://env/api/" {
		t.Errorf("expected env override, got %q", cfg.APIURL)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: carrier-pigeon\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := New(dir); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/xdg", "taskctl") {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestZeroConfigFallbacks(t *testing.T) {
	cfg := &Config{}
	if cfg.BaseURL() != DefaultAPIURL {
		t.Errorf("expected default base url, got %q", cfg.BaseURL())
	}
	if cfg.CallTimeout() != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.CallTimeout())
	}
}
