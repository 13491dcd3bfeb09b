package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/caretip/internal/marker"
)

// gutterWidth is the marker column: the glyph and a space.
const gutterWidth = 2

// markState is the marker color shared by every buffer's gutter.
type markState struct {
	color marker.Color
}

// position is a cursor location in a buffer.
type position struct {
	row, col int
}

// Buffer is one editor buffer. The marker is drawn in its gutter on the
// display line holding the cursor.
type Buffer struct {
	name  string
	input textarea.Model
	mark  *markState

	// cursorLine is the display line (after soft wrapping) of the cursor.
	cursorLine int
	pos        position
	meter      *wrapMeter
}

func newBuffer(name string, mark *markState) *Buffer {
	b := &Buffer{name: name, mark: mark, meter: newWrapMeter()}

	ta := textarea.New()
	ta.Placeholder = "Type here; the marker follows the cursor..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetPromptFunc(gutterWidth, b.gutter)
	b.input = ta
	return b
}

func (b *Buffer) gutter(displayLine int) string {
	if displayLine != b.cursorLine || b.mark.color == "" {
		return strings.Repeat(" ", gutterWidth)
	}
	return marker.Render(b.mark.color) + " "
}

// Name returns the buffer name.
func (b *Buffer) Name() string { return b.name }

// Value returns the buffer text.
func (b *Buffer) Value() string { return b.input.Value() }

// SetSize updates the editing area.
func (b *Buffer) SetSize(width, height int) {
	b.input.SetWidth(width)
	b.input.SetHeight(height)
	b.meter.setWidth(width)
	b.track()
}

// Focus gives the buffer keyboard focus.
func (b *Buffer) Focus() tea.Cmd { return b.input.Focus() }

// Blur removes keyboard focus.
func (b *Buffer) Blur() { b.input.Blur() }

// Update forwards msg to the textarea and reports whether the cursor moved.
func (b *Buffer) Update(msg tea.Msg) (tea.Cmd, bool) {
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return cmd, b.track()
}

// track recomputes the cursor position and returns whether it changed.
func (b *Buffer) track() bool {
	info := b.input.LineInfo()
	next := position{row: b.input.Line(), col: info.RowOffset*info.Width + info.ColumnOffset}
	b.cursorLine = displayLine(b.input.Value(), b.input.Line(), info.RowOffset, b.meter.height)
	moved := next != b.pos
	b.pos = next
	return moved
}

// View renders the buffer.
func (b *Buffer) View() string { return b.input.View() }

func (b *Buffer) String() string {
	return fmt.Sprintf("%s (%d:%d)", b.name, b.pos.row+1, b.pos.col+1)
}

// displayLine maps a logical row and its wrapped sub-row to the display line
// index the textarea renders it on. height reports how many display lines a
// logical row wraps onto.
func displayLine(text string, row, subRow int, height func(string) int) int {
	lines := strings.Split(text, "\n")
	n := 0
	for i := 0; i < row && i < len(lines); i++ {
		n += height(lines[i])
	}
	return n + subRow
}

// maxMeterEntries bounds the wrap height cache.
const maxMeterEntries = 1024

// wrapMeter measures how many display lines a row wraps onto, using a
// scratch textarea of the buffer's width so the result matches the textarea's
// own word wrapping.
type wrapMeter struct {
	width   int
	heights map[string]int
}

func newWrapMeter() *wrapMeter {
	return &wrapMeter{heights: make(map[string]int)}
}

func (w *wrapMeter) setWidth(width int) {
	if width != w.width {
		w.width = width
		clear(w.heights)
	}
}

func (w *wrapMeter) height(line string) int {
	if line == "" || w.width <= 0 {
		return 1
	}
	if h, ok := w.heights[line]; ok {
		return h
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetPromptFunc(gutterWidth, func(int) string { return "" })
	ta.SetWidth(w.width)
	ta.SetValue(line)
	h := max(1, ta.LineInfo().Height)

	if len(w.heights) >= maxMeterEntries {
		clear(w.heights)
	}
	w.heights[line] = h
	return h
}
