// Package paths provides a single source of truth for caretip file paths.
// All path helpers honor environment variable overrides for isolated testing.
//
// Path resolution precedence:
//  1. Specific env vars (CARETIP_ENDPOINT, CARETIP_INSTALL_DIR) take highest priority
//  2. CARETIP_DIR env var sets the base directory (derives config and log paths)
//  3. Default behavior (~/.caretip, ~/.config/caretip) when no env vars are set
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment variable names for path overrides.
const (
	// EnvCaretipDir is the base directory override (e.g., /tmp/caretip-e2e).
	EnvCaretipDir = "CARETIP_DIR"

	// EnvEndpoint overrides the IPC endpoint the helper publishes on.
	EnvEndpoint = "CARETIP_ENDPOINT"

	// EnvInstallDir overrides the directory the helper executable is resolved against.
	EnvInstallDir = "CARETIP_INSTALL_DIR"
)

// PipeName is the endpoint name the helper creates.
const PipeName = "ime_pipe"

// HelperName is the helper executable's base name, without platform extension.
const HelperName = "ime_checker"

// BaseDir returns the caretip base directory (~/.caretip by default).
// Honors CARETIP_DIR environment variable.
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvCaretipDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".caretip"), nil
}

// ConfigDir returns the caretip config directory (~/.config/caretip by default).
// When CARETIP_DIR is set, returns CARETIP_DIR/config instead.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvCaretipDir); dir != "" {
		return filepath.Join(dir, "config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "caretip"), nil
}

// ConfigPath returns the path to the caretip config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultEndpoint returns the IPC endpoint the helper listens on.
// Precedence: CARETIP_ENDPOINT > platform default.
// On Windows this is a named pipe path; elsewhere a Unix socket in the temp dir.
func DefaultEndpoint() string {
	if ep := os.Getenv(EnvEndpoint); ep != "" {
		return ep
	}
	if runtime.GOOS == "windows" {
		return `\\.\pipe\` + PipeName
	}
	return filepath.Join(os.TempDir(), PipeName+".sock")
}

// InstallDir returns the directory caretip was installed into, which is where
// the helper executable lives. Honors CARETIP_INSTALL_DIR.
func InstallDir() (string, error) {
	if dir := os.Getenv(EnvInstallDir); dir != "" {
		return dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// ResolveHelper returns the absolute path of the helper executable.
// Relative names are resolved against InstallDir, never the working directory.
// On Windows an ".exe" suffix is added when name has no extension.
func ResolveHelper(name string) (string, error) {
	if name == "" {
		name = HelperName
	}
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir, err := InstallDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
