package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"debug lowercase", "debug", slog.LevelDebug},
		{"debug uppercase", "DEBUG", slog.LevelDebug},
		{"info lowercase", "info", slog.LevelInfo},
		{"warn mixed", "Warn", slog.LevelWarn},
		{"error uppercase", "ERROR", slog.LevelError},
		{"empty string", "", slog.LevelInfo},
		{"trace returns info", "trace", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetupWritesJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "logs", "caretip.log")
	var extra bytes.Buffer

	cleanup, err := Setup(Options{Path: path, Level: slog.LevelDebug, Extra: &extra})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	slog.Info("helper exited", "code", 3)
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"helper exited"`) {
		t.Errorf("log file missing record: %s", data)
	}
	if !strings.Contains(extra.String(), `"code":3`) {
		t.Errorf("extra writer missing record: %s", extra.String())
	}
}

func TestLogPanicRecovers(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	defer slog.SetDefault(prev)
	SetupTest(&buf)

	var recovered any
	func() {
		defer LogPanic("test", func(r any) { recovered = r })
		panic("boom")
	}()

	if recovered != "boom" {
		t.Errorf("recovered = %v, want boom", recovered)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic log line, got %q", buf.String())
	}
}
