package helper

import (
	"bytes"
	"log/slog"
	"sync"
)

// lineLogger is an io.Writer that logs each complete line written to it.
// The helper has no stdout protocol; its output is diagnostic only.
type lineLogger struct {
	log    *slog.Logger
	stream string

	mu  sync.Mutex
	buf []byte
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimRight(w.buf[:i], "\r")
		if len(line) > 0 {
			w.log.Debug("helper output", "stream", w.stream, "line", string(line))
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}
