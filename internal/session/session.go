// Package session holds the authenticated identity and persists it between runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoSession is returned when no usable session is stored.
var ErrNoSession = errors.New("not logged in")

// Session is the credential handed to a gateway at construction.
type Session struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
}

// New creates a session. The token is required.
func New(token, username string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("empty token")
	}
	return &Session{Token: token, Username: username}, nil
}

// Valid reports whether s can authenticate requests.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// File persists a Session as a small key-value document.
type File struct {
	path string
}

// NewFile returns a File stored at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Exists reports whether a session file is present.
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Load reads the stored session.
// Returns ErrNoSession if the file is missing or holds no token.
func (f *File) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid session file %s: %w", f.path, err)
	}
	if !s.Valid() {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save writes the session with mode 0600, creating the parent directory.
func (f *File) Save(s *Session) error {
	if !s.Valid() {
		return errors.New("refusing to save session without token")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

// Clear removes the stored session. A missing file is not an error.
func (f *File) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
