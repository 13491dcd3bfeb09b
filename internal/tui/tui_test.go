package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/caretip/internal/channel"
	"github.com/tessro/caretip/internal/helper"
	"github.com/tessro/caretip/internal/imestate"
	"github.com/tessro/caretip/internal/marker"
)

type fakeHost struct {
	cursor int
	editor int
}

func (h *fakeHost) CursorMoved()   { h.cursor++ }
func (h *fakeHost) EditorChanged() { h.editor++ }

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func newAttached(t *testing.T) (Model, *fakeHost) {
	t.Helper()
	host := &fakeHost{}
	m := New()
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, attachMsg{host: host})
	return m, host
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := New()
	if len(m.Buffers()) != 1 {
		t.Fatalf("buffers = %d, want 1", len(m.Buffers()))
	}
	if m.View() != "Loading..." {
		t.Errorf("View() before size = %q", m.View())
	}
}

func TestTypingMovesCursor(t *testing.T) {
	m, host := newAttached(t)

	m = typeText(t, m, "abc")
	if host.cursor != 3 {
		t.Errorf("CursorMoved calls = %d, want 3", host.cursor)
	}
	if got := m.Active().Value(); got != "abc" {
		t.Errorf("Value() = %q, want abc", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if host.cursor != 4 {
		t.Errorf("CursorMoved calls after left = %d, want 4", host.cursor)
	}
	if host.editor != 0 {
		t.Errorf("EditorChanged calls = %d, want 0", host.editor)
	}
}

func TestBufferSwitching(t *testing.T) {
	m, host := newAttached(t)

	// One buffer: next wraps to itself and is not a change.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if host.editor != 0 {
		t.Errorf("EditorChanged with one buffer = %d, want 0", host.editor)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if len(m.Buffers()) != 2 || m.active != 1 {
		t.Fatalf("after new buffer: %d buffers, active %d", len(m.Buffers()), m.active)
	}
	if host.editor != 1 {
		t.Errorf("EditorChanged = %d, want 1", host.editor)
	}

	m = typeText(t, m, "x")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.active != 0 || host.editor != 2 {
		t.Errorf("after prev: active %d, EditorChanged %d", m.active, host.editor)
	}
	if m.Active().Value() != "" {
		t.Errorf("buffer 1 value = %q, want empty", m.Active().Value())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.active != 1 || m.Active().Value() != "x" {
		t.Errorf("after next: active %d value %q", m.active, m.Active().Value())
	}
}

func TestCloseBuffer(t *testing.T) {
	m, host := newAttached(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	if len(m.Buffers()) != 1 {
		t.Errorf("closed the last buffer")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	before := host.editor
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})

	if len(m.Buffers()) != 2 {
		t.Fatalf("buffers = %d, want 2", len(m.Buffers()))
	}
	if m.active != 1 {
		t.Errorf("active = %d, want 1", m.active)
	}
	if host.editor != before+1 {
		t.Errorf("EditorChanged = %d, want %d", host.editor, before+1)
	}
}

func TestPaintDrawsMarkerAtCursor(t *testing.T) {
	m, _ := newAttached(t)

	m = update(t, m, PaintMsg{Color: "yellow"})
	if m.Color() != "yellow" {
		t.Errorf("Color() = %q", m.Color())
	}

	b := m.Active()
	if got := b.gutter(b.cursorLine); got != marker.Render("yellow")+" " {
		t.Errorf("gutter at cursor = %q", got)
	}
	if got := b.gutter(b.cursorLine + 1); strings.Contains(got, marker.Glyph) {
		t.Errorf("gutter off cursor = %q, want blank", got)
	}
	if !strings.Contains(m.View(), marker.Glyph) {
		t.Error("View() has no marker")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Active().cursorLine != 1 {
		t.Errorf("cursorLine after enter = %d, want 1", m.Active().cursorLine)
	}
}

func TestMarkerFollowsBufferSwitch(t *testing.T) {
	m, _ := newAttached(t)
	m = update(t, m, PaintMsg{Color: "blue"})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})

	b := m.Active()
	if got := b.gutter(b.cursorLine); !strings.Contains(got, marker.Glyph) {
		t.Errorf("new buffer gutter = %q, want marker", got)
	}
}

func TestStatusAndErrorMessages(t *testing.T) {
	m, _ := newAttached(t)

	if !strings.Contains(m.status.Text(), "waiting for status") {
		t.Errorf("initial status = %q", m.status.Text())
	}

	m = update(t, m, StatusMsg{Status: imestate.Status{Mode: imestate.ModeChinese}})
	m = update(t, m, PaintMsg{Color: "yellow"})
	text := m.status.Text()
	if !strings.Contains(text, "mode=chinese") || !strings.Contains(text, "color=yellow") {
		t.Errorf("status = %q", text)
	}

	m = update(t, m, ErrMsg{Err: errors.New("pipe broken")})
	if !strings.Contains(m.status.Text(), "pipe broken") {
		t.Errorf("status after error = %q", m.status.Text())
	}

	m = update(t, m, StatusMsg{Status: imestate.Status{Mode: imestate.ModeEnglish, CapsLock: true}})
	if strings.Contains(m.status.Text(), "pipe broken") {
		t.Error("error not cleared by a new status")
	}
}

func TestStatusLineTruncates(t *testing.T) {
	s := StatusLine{}
	s.SetWidth(20)
	s.SetBuffer("a buffer with a very long name indeed")
	s.SetStatus(imestate.Status{Mode: imestate.ModeEnglish})

	if w := lipgloss.Width(s.View()); w > 20 {
		t.Errorf("status width = %d, want <= 20", w)
	}
	if !strings.Contains(s.View(), "…") {
		t.Errorf("View() = %q, want ellipsis", s.View())
	}
}

func TestHeader(t *testing.T) {
	h := NewHeader()
	h.SetWidth(80)

	if !strings.Contains(h.View(), "disconnected") {
		t.Errorf("initial header = %q", h.View())
	}

	h.SetConnectionState(channel.Connected)
	h.HandleHelperEvent(helper.Event{Kind: helper.EventStarted, PID: 42})
	v := h.View()
	if !strings.Contains(v, "connected") || !strings.Contains(v, "helper pid 42") {
		t.Errorf("header = %q", v)
	}

	h.HandleHelperEvent(helper.Event{Kind: helper.EventExited, PID: 42, ExitCode: 3})
	if v := h.View(); !strings.Contains(v, "exited (3)") {
		t.Errorf("header after exit = %q", v)
	}

	h.HandleHelperEvent(helper.Event{Kind: helper.EventStarted, PID: 43})
	if v := h.View(); !strings.Contains(v, "(1 restarts)") {
		t.Errorf("header after restart = %q", v)
	}

	h.HandleHelperEvent(helper.Event{Kind: helper.EventLaunchFailed})
	if v := h.View(); !strings.Contains(v, "failed to launch") {
		t.Errorf("header after launch failure = %q", v)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newAttached(t)
	short := m.View()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if !m.help.ShowAll {
		t.Fatal("ShowAll = false after toggle")
	}
	if !strings.Contains(m.View(), "close buffer") {
		t.Error("full help missing close buffer")
	}
	if strings.Contains(short, "close buffer") {
		t.Error("short help shows close buffer")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newAttached(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestDisplayLine(t *testing.T) {
	// Fixed-width wrapping at 10 columns.
	height := func(line string) int { return len(line)/10 + 1 }

	tests := []struct {
		name   string
		text   string
		row    int
		subRow int
		want   int
	}{
		{"first row", "abc", 0, 0, 0},
		{"second row", "abc\ndef", 1, 0, 1},
		{"after wrapped row", strings.Repeat("x", 25) + "\nabc", 1, 0, 3},
		{"sub row", strings.Repeat("x", 25), 0, 2, 2},
		{"row past end", "a\nb", 5, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayLine(tt.text, tt.row, tt.subRow, height); got != tt.want {
				t.Errorf("displayLine() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCursorLineFollowsWordWrap(t *testing.T) {
	m, _ := newAttached(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 24, Height: 24})

	// Words wrap before the column limit, so a column count would undercount.
	m = typeText(t, m, "lorem ipsum dolor sit amet consectetur adipiscing elit sed do")
	wrapped := m.Active().input.LineInfo().Height
	if wrapped < 2 {
		t.Fatalf("line wraps onto %d rows, want at least 2", wrapped)
	}
	if got := m.Active().cursorLine; got != wrapped-1 {
		t.Errorf("cursorLine on wrapped row = %d, want %d", got, wrapped-1)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Active().cursorLine; got != wrapped {
		t.Errorf("cursorLine after enter = %d, want %d", got, wrapped)
	}
}

func TestWrapMeter(t *testing.T) {
	w := newWrapMeter()
	if h := w.height("anything at all"); h != 1 {
		t.Errorf("height with no width = %d, want 1", h)
	}

	w.setWidth(20)
	if h := w.height(""); h != 1 {
		t.Errorf("height of empty row = %d, want 1", h)
	}
	long := strings.Repeat("word ", 20)
	h := w.height(long)
	if h < 4 {
		t.Errorf("height of %d-column row at width 20 = %d, want at least 4", len(long), h)
	}
	if w.heights[long] != h {
		t.Error("height not cached")
	}

	w.setWidth(40)
	if len(w.heights) != 0 {
		t.Error("cache kept across width change")
	}
}
