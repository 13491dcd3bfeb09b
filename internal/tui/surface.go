package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/caretip/internal/channel"
	"github.com/tessro/caretip/internal/helper"
	"github.com/tessro/caretip/internal/imestate"
	"github.com/tessro/caretip/internal/marker"
)

// Surface forwards caretip callbacks into a running program as messages.
// It implements marker.Surface; the other methods fit the extension's
// observer options.
type Surface struct {
	p *tea.Program
}

var _ marker.Surface = (*Surface)(nil)

// NewSurface creates a surface for p.
func NewSurface(p *tea.Program) *Surface {
	return &Surface{p: p}
}

// Paint implements marker.Surface.
func (s *Surface) Paint(c marker.Color) { s.p.Send(PaintMsg{Color: c}) }

// Conn forwards a connection state change.
func (s *Surface) Conn(st channel.ConnState) { s.p.Send(ConnMsg{State: st}) }

// Helper forwards a helper lifecycle event.
func (s *Surface) Helper(ev helper.Event) { s.p.Send(HelperMsg{Event: ev}) }

// Status forwards a decoded status.
func (s *Surface) Status(st imestate.Status) { s.p.Send(StatusMsg{Status: st}) }

// Error forwards an error.
func (s *Surface) Error(err error) { s.p.Send(ErrMsg{Err: err}) }
