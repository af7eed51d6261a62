// Package config handles the configuration directory, config file and runtime settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskctl"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// SessionFile holds the persisted token and username.
	SessionFile = "session.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TASKCTL_API_URL.
	EnvPrefix = "TASKCTL"

	// DefaultAPIURL is the task API base URL used when none is configured.
	DefaultAPIURL = "http://127.0.0.1:5000/api/"

	// DefaultTimeout bounds each API call.
	DefaultTimeout = 5 * time.Second
)

// Backends understood by the CLI.
const (
	BackendHTTP        = "http"
	BackendGoogleTasks = "googletasks"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// APIURL is the base URL of the task API.
	APIURL string

	// Timeout bounds a single API call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Backend selects the gateway implementation.
	Backend string

	// LogLevel is a logrus level name. Debug overrides it.
	LogLevel string

	// MetricsFile, when set, receives request metrics in Prometheus text format.
	MetricsFile string
}

// New creates a Config for the default or specified config directory and
// loads config.yaml plus TASKCTL_* environment overrides on top of defaults.
// If configDir is empty, uses XDG_CONFIG_HOME/taskctl or $HOME/.config/taskctl.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load() error {
	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("backend", BackendHTTP)
	v.SetDefault("log_level", "warn")
	v.SetDefault("metrics_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(c.ConfigPath()); err == nil {
		v.SetConfigFile(c.ConfigPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	c.APIURL = v.GetString("api_url")
	c.Timeout = v.GetDuration("timeout")
	c.Backend = strings.ToLower(strings.TrimSpace(v.GetString("backend")))
	c.LogLevel = v.GetString("log_level")
	c.MetricsFile = v.GetString("metrics_file")

	switch c.Backend {
	case BackendHTTP, BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// BaseURL returns APIURL or the default.
func (c *Config) BaseURL() string {
	if c.APIURL == "" {
		return DefaultAPIURL
	}
	return c.APIURL
}

// CallTimeout returns Timeout or the default.
func (c *Config) CallTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
