package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func startWatcher(t *testing.T, path string) <-chan *Config {
	t.Helper()
	reloads := make(chan *Config, 8)
	w, err := NewWatcher(path, func(c *Config) { reloads <- c },
		WithDebounce(20*time.Millisecond), WithWatcherLogger(quietLog))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return reloads
}

func expectReload(t *testing.T, reloads <-chan *Config) *Config {
	t.Helper()
	select {
	case c := <-reloads:
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
		return nil
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[palette]\ncaps = \"blue\"\n")
	reloads := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("[palette]\ncaps = \"green\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := expectReload(t, reloads); got.Palette.Caps != "green" {
		t.Errorf("Palette.Caps = %q, want green", got.Palette.Caps)
	}
}

func TestWatcherPicksUpCreatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	reloads := startWatcher(t, path)

	writeFile(t, dir, "config.toml", "[palette]\nlatin = \"white\"\n")

	if got := expectReload(t, reloads); got.Palette.Latin != "white" {
		t.Errorf("Palette.Latin = %q, want white", got.Palette.Latin)
	}
}

func TestWatcherSkipsInvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "")
	reloads := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("[palette]\ncaps = \"nope-color\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-reloads:
		t.Fatalf("reloaded invalid config: %+v", c.Palette)
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("[palette]\ncaps = \"red\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := expectReload(t, reloads); got.Palette.Caps != "red" {
		t.Errorf("Palette.Caps = %q, want red", got.Palette.Caps)
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "")
	reloads := startWatcher(t, path)

	writeFile(t, dir, "other.toml", "endpoint = \"/x\"\n")

	select {
	case <-reloads:
		t.Fatal("reloaded on unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.toml"), func(*Config) {}, WithWatcherLogger(quietLog))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
