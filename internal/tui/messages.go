package tui

import (
	"github.com/tessro/caretip/internal/channel"
	"github.com/tessro/caretip/internal/helper"
	"github.com/tessro/caretip/internal/imestate"
	"github.com/tessro/caretip/internal/marker"
)

// PaintMsg repaints the cursor marker.
type PaintMsg struct {
	Color marker.Color
}

// ConnMsg reports a status channel state change.
type ConnMsg struct {
	State channel.ConnState
}

// HelperMsg reports a helper lifecycle event.
type HelperMsg struct {
	Event helper.Event
}

// StatusMsg carries the last decoded input-method status.
type StatusMsg struct {
	Status imestate.Status
}

// ErrMsg reports a non-fatal error for display.
type ErrMsg struct {
	Err error
}

// attachMsg hands the activated host to the model.
type attachMsg struct {
	host Host
}
