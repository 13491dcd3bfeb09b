package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tessro/caretip/internal/imestate"
)

// ErrNoStatus is returned by ReadOnce when the endpoint closes before sending
// a well formed status line.
var ErrNoStatus = errors.New("channel: no status received")

// ReadOnce dials endpoint once, without retrying, and returns the first well
// formed status line. Malformed lines are skipped.
func ReadOnce(ctx context.Context, dial DialFunc, endpoint string) (imestate.Status, error) {
	if dial == nil {
		dial = DialEndpoint
	}
	conn, err := dial(ctx, endpoint)
	if err != nil {
		return imestate.Status{}, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	defer conn.Close()

	// Unblock the scanner once ctx is done.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	lines := newLineReader(conn, MaxLineLength)
	for {
		line, err := lines.Next()
		if errors.Is(err, errLineTooLong) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return imestate.Status{}, ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return imestate.Status{}, ErrNoStatus
			}
			return imestate.Status{}, fmt.Errorf("read status: %w", err)
		}
		if st, err := imestate.Parse(line); err == nil {
			return st, nil
		}
	}
}
