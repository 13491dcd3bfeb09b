package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// ValidationError wraps a validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the config for values caretip cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return &ValidationError{Field: "endpoint", Message: "cannot be empty"}
	}
	if c.RetryDelay <= 0 {
		return &ValidationError{Field: "retry_delay", Message: "must be positive"}
	}
	if c.Helper.RestartDelay <= 0 {
		return &ValidationError{Field: "helper.restart_delay", Message: "must be positive"}
	}
	if c.Helper.StopTimeout <= 0 {
		return &ValidationError{Field: "helper.stop_timeout", Message: "must be positive"}
	}
	if c.Helper.Enabled && strings.TrimSpace(c.Helper.Path) == "" {
		return &ValidationError{Field: "helper.path", Message: "cannot be empty when the helper is enabled"}
	}
	if err := c.Palette.Validate(); err != nil {
		return &ValidationError{Field: "palette", Message: err.Error()}
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	return nil
}
