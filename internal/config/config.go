// Package config loads caretip's configuration.
//
// The file is TOML (~/.config/caretip/config.toml) unless its extension is
// .yaml or .yml. Keys missing from the file keep their defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tessro/caretip/internal/marker"
	"github.com/tessro/caretip/internal/paths"
)

// Default values.
const (
	DefaultRetryDelay   = 1000 * time.Millisecond
	DefaultRestartDelay = 1000 * time.Millisecond
	DefaultStopTimeout  = 5 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
	DefaultLogBackups   = 3
	DefaultLogMaxAge    = 28
)

// Config is the caretip configuration.
type Config struct {
	// Endpoint is the helper's named pipe (Windows) or socket path.
	Endpoint string `toml:"endpoint" yaml:"endpoint"`

	// RetryDelay is the fixed delay between connection attempts.
	RetryDelay Duration `toml:"retry_delay" yaml:"retry_delay"`

	// RedialOnClose reconnects after the helper closes an established session.
	RedialOnClose bool `toml:"redial_on_close" yaml:"redial_on_close"`

	Helper  HelperConfig   `toml:"helper" yaml:"helper"`
	Palette marker.Palette `toml:"palette" yaml:"palette"`
	Log     LogConfig      `toml:"log" yaml:"log"`
}

// HelperConfig configures the supervised helper process.
type HelperConfig struct {
	// Enabled starts and supervises the helper. Disable when the helper is
	// managed elsewhere.
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// Path is the helper executable, relative to the install directory
	// unless absolute.
	Path string `toml:"path" yaml:"path"`

	RestartDelay Duration `toml:"restart_delay" yaml:"restart_delay"`
	StopTimeout  Duration `toml:"stop_timeout" yaml:"stop_timeout"`

	// LogOutput copies helper stdout/stderr into the debug log.
	LogOutput bool `toml:"log_output" yaml:"log_output"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level      string `toml:"level" yaml:"level"`
	Path       string `toml:"path" yaml:"path"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Endpoint:      paths.DefaultEndpoint(),
		RetryDelay:    Duration(DefaultRetryDelay),
		RedialOnClose: true,
		Helper: HelperConfig{
			Enabled:      true,
			Path:         paths.HelperName,
			RestartDelay: Duration(DefaultRestartDelay),
			StopTimeout:  Duration(DefaultStopTimeout),
		},
		Palette: marker.DefaultPalette(),
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogBackups,
			MaxAgeDays: DefaultLogMaxAge,
		},
	}
}

// Path returns the config file path, honoring an explicit override.
func Path(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return paths.ConfigPath()
}

// Load reads the config at path over the defaults and validates it.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HelperPath returns the absolute helper executable path.
func (c *Config) HelperPath() (string, error) {
	return paths.ResolveHelper(c.Helper.Path)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
