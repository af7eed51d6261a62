package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFile_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	f := NewFile(path)

	s, err := New("abc123", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Save(s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "token: abc123") || !strings.Contains(string(data), "username: alice") {
		t.Errorf("expected token and username keys, got %q", data)
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Token != "abc123" || got.Username != "alice" {
		t.Errorf("expected alice/abc123, got %+v", got)
	}
}

func TestFile_LoadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "session.yaml"))

	_, err := f.Load()
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if f.Exists() {
		t.Error("expected no session file")
	}
}

func TestFile_LoadEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("token: \"\"\nusername: bob\n"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	_, err := NewFile(path).Load()
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestFile_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	f := NewFile(path)
	s, _ := New("tok", "alice")
	if err := f.Save(s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := f.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if f.Exists() {
		t.Error("session file should have been removed")
	}

	// Clearing twice is fine
	if err := f.Clear(); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}

func TestNew_RejectsEmptyToken(t *testing.T) {
	if _, err := New("   ", "alice"); err == nil {
		t.Error("expected error for blank token")
	}
}
