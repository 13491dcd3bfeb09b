package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/caretip/internal/channel"
	"github.com/tessro/caretip/internal/helper"
	"github.com/tessro/caretip/internal/marker"
)

// helperState is the header's summary of the helper lifecycle.
type helperState int

const (
	helperUnknown helperState = iota
	helperRunning
	helperRestarting
	helperFailed
	helperStopped
)

// Header displays branding, the marker, and the connection and helper state.
type Header struct {
	width int

	color     marker.Color
	connState channel.ConnState

	helper   helperState
	pid      int
	restarts int
	lastExit int
}

// NewHeader creates a new header component.
func NewHeader() Header {
	return Header{connState: channel.Disconnected}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetColor updates the marker shown next to the brand.
func (h *Header) SetColor(c marker.Color) {
	h.color = c
}

// SetConnectionState updates the connection state display.
func (h *Header) SetConnectionState(state channel.ConnState) {
	h.connState = state
}

// HandleHelperEvent folds a helper event into the display.
func (h *Header) HandleHelperEvent(ev helper.Event) {
	switch ev.Kind {
	case helper.EventStarted:
		if h.helper == helperRestarting {
			h.restarts++
		}
		h.helper = helperRunning
		h.pid = ev.PID
	case helper.EventExited:
		h.helper = helperRestarting
		h.pid = 0
		h.lastExit = ev.ExitCode
	case helper.EventLaunchFailed:
		h.helper = helperFailed
		h.pid = 0
	case helper.EventStopped:
		h.helper = helperStopped
		h.pid = 0
	}
}

func (h Header) connView() string {
	switch h.connState {
	case channel.Connected:
		return headerOKStyle.Render(" ● connected")
	case channel.Connecting:
		return headerPendingStyle.Render(" ◌ connecting...")
	default:
		return headerDownStyle.Render(" ● disconnected")
	}
}

func (h Header) helperView() string {
	switch h.helper {
	case helperRunning:
		s := fmt.Sprintf("helper pid %d", h.pid)
		if h.restarts > 0 {
			s += fmt.Sprintf(" (%d restarts)", h.restarts)
		}
		return s
	case helperRestarting:
		return fmt.Sprintf("helper exited (%d), restarting", h.lastExit)
	case helperFailed:
		return "helper failed to launch"
	case helperStopped:
		return "helper stopped"
	}
	return ""
}

// View renders the header.
func (h Header) View() string {
	brand := headerBrandStyle.Render("caretip")
	if h.color != "" {
		brand = headerBrandStyle.Render(marker.Style(h.color).Background(primaryColor).Render(marker.Glyph) + " caretip")
	}
	conn := h.connView()

	var stats string
	if hv := h.helperView(); hv != "" {
		stats = headerStatsStyle.Render(hv)
	}

	spacerWidth := h.width - lipgloss.Width(brand) - lipgloss.Width(conn) - lipgloss.Width(stats)
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := headerContainerStyle.Render(strings.Repeat(" ", spacerWidth))

	content := lipgloss.JoinHorizontal(lipgloss.Top, brand, conn, spacer, stats)
	return headerContainerStyle.Width(h.width).MaxWidth(h.width).Render(content)
}
