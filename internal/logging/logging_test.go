package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer

	if l := New(&buf, "info", false); l.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info, got %v", l.GetLevel())
	}
	if l := New(&buf, "bogus", false); l.GetLevel() != logrus.WarnLevel {
		t.Errorf("expected warn fallback, got %v", l.GetLevel())
	}
	if l := New(&buf, "error", true); l.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug override, got %v", l.GetLevel())
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", false)

	WithRequestID(logrus.NewEntry(l), "req-1").Debug("hello")
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("expected request_id field, got %q", buf.String())
	}

	buf.Reset()
	WithRequestID(logrus.NewEntry(l), "").Debug("hello")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("expected no request_id field, got %q", buf.String())
	}
}
