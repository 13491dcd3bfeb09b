package marker

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/caretip/internal/imestate"
)

// Glyph is the marker drawn next to the cursor.
const Glyph = "■"

// Surface is the host's decoration API: it draws the marker at the cursor in
// the given color.
type Surface interface {
	Paint(c Color)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Color)

func (f SurfaceFunc) Paint(c Color) { f(c) }

// Binder tracks the marker kind and repaints the surface. It is not safe
// for concurrent use; caretip drives it from the event loop.
type Binder struct {
	palette Palette
	kind    Kind
	surface Surface
}

// NewBinder creates a binder showing the palette's initial color.
func NewBinder(p Palette, s Surface) *Binder {
	return &Binder{palette: p, kind: KindInitial, surface: s}
}

// Kind returns the current marker kind.
func (b *Binder) Kind() Kind { return b.kind }

// Color returns the current marker color.
func (b *Binder) Color() Color { return b.palette.Color(b.kind) }

// Apply updates the marker for st. The surface is repainted only when the
// color changes; returns whether it did.
func (b *Binder) Apply(st imestate.Status) bool {
	next := Resolve(st, b.kind)
	if b.palette.Color(next) == b.Color() {
		b.kind = next
		return false
	}
	b.kind = next
	b.Refresh()
	return true
}

// Refresh repaints the marker with the current color. Hosts call it when the
// cursor moves or the active editor changes.
func (b *Binder) Refresh() {
	if b.surface != nil {
		b.surface.Paint(b.Color())
	}
}

// SetPalette swaps the palette and repaints if the current color changed.
func (b *Binder) SetPalette(p Palette) {
	old := b.Color()
	b.palette = p
	if b.Color() != old {
		b.Refresh()
	}
}

// Style returns the lipgloss style for a marker of color c.
func Style(c Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if h, ok := Hex(c); ok {
		s = s.Foreground(lipgloss.Color(h))
	}
	return s
}

// Render draws the marker glyph in color c.
func Render(c Color) string {
	return Style(c).Render(Glyph)
}
