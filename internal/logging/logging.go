// Package logging builds the structured logger shared by the gateway, store and CLI.
package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing text records to out.
// Unknown level names fall back to warn; debug forces the debug level.
func New(out io.Writer, level string, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	if debug {
		lvl = logrus.DebugLevel
	}
	l.SetLevel(lvl)
	return l
}

// Discard returns a logger that drops everything. Used when no logger is injected.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// WithRequestID adds request_id to the entry when present.
func WithRequestID(entry *logrus.Entry, requestID string) *logrus.Entry {
	if requestID == "" {
		return entry
	}
	return entry.WithField("request_id", requestID)
}
