package tui

import (
	"fmt"

	"github.com/muesli/reflow/truncate"

	"github.com/tessro/caretip/internal/imestate"
	"github.com/tessro/caretip/internal/marker"
)

// StatusLine shows the last decoded status and the marker color, or the
// last error.
type StatusLine struct {
	width int

	status   imestate.Status
	received bool
	color    marker.Color
	buffer   string
	err      error
}

// SetWidth updates the status line width.
func (s *StatusLine) SetWidth(width int) {
	s.width = width
}

// SetStatus records a decoded status and clears any error.
func (s *StatusLine) SetStatus(st imestate.Status) {
	s.status = st
	s.received = true
	s.err = nil
}

// SetColor records the marker color.
func (s *StatusLine) SetColor(c marker.Color) {
	s.color = c
}

// SetBuffer records the active buffer's name.
func (s *StatusLine) SetBuffer(name string) {
	s.buffer = name
}

// SetError shows err until the next status arrives.
func (s *StatusLine) SetError(err error) {
	s.err = err
}

// Text returns the unstyled status text.
func (s StatusLine) Text() string {
	if s.err != nil {
		return "error: " + s.err.Error()
	}
	st := "waiting for status"
	if s.received {
		st = s.status.String()
	}
	return fmt.Sprintf("%s  %s  color=%s", s.buffer, st, s.color)
}

// View renders the status line, truncated to fit.
func (s StatusLine) View() string {
	text := s.Text()
	if s.width > 2 {
		// Padding takes two columns.
		text = truncate.StringWithTail(text, uint(s.width-2), "…")
	}
	if s.err != nil {
		return errorBarStyle.Width(s.width).Render(text)
	}
	return statusStyle.Width(s.width).Render(text)
}
