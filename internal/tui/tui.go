// Package tui is caretip's terminal editor host: a small multi-buffer editor
// that shows the input-method marker next to the cursor.
package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/caretip/internal/logging"
)

// Host receives editor events. *extension.Extension implements it.
type Host interface {
	CursorMoved()
	EditorChanged()
}

// Model is the Bubbletea model for the caretip editor.
type Model struct {
	width  int
	height int
	ready  bool

	header  Header
	status  StatusLine
	help    help.Model
	keys    KeyBindings
	buffers []*Buffer
	active  int
	nextID  int

	mark *markState
	host Host
}

// New creates a model with one empty buffer.
func New() Model {
	m := Model{
		header: NewHeader(),
		help:   help.New(),
		keys:   DefaultKeyBindings(),
		mark:   &markState{},
	}
	m.addBuffer()
	m.buffers[0].Focus()
	m.status.SetBuffer(m.buffers[0].String())
	return m
}

func (m *Model) addBuffer() *Buffer {
	m.nextID++
	b := newBuffer(fmt.Sprintf("buffer %d", m.nextID), m.mark)
	m.buffers = append(m.buffers, b)
	m.layout()
	return b
}

// Active returns the focused buffer.
func (m Model) Active() *Buffer { return m.buffers[m.active] }

// Buffers returns the open buffers.
func (m Model) Buffers() []*Buffer { return m.buffers }

// Color returns the marker color last painted.
func (m Model) Color() string { return string(m.mark.color) }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.Active().Focus()
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.help.Width = m.width

	// header, tabs, status line, help
	chrome := 4
	if m.help.ShowAll {
		chrome += len(m.keys.FullHelp()[0]) - 1
	}
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	for _, b := range m.buffers {
		if m.width > 0 {
			b.SetSize(m.width, h)
		}
	}
}

func (m Model) tabsView() string {
	tabs := make([]string, len(m.buffers))
	for i, b := range m.buffers {
		style := tabStyle
		if i == m.active {
			style = tabActiveStyle
		}
		tabs[i] = style.Render(b.Name())
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.tabsView(),
		m.Active().View(),
		m.status.View(),
		helpStyle.Render(m.help.View(m.keys)),
	)
}

// ActivateFunc starts caretip against surface and returns the host to notify
// of editor events.
type ActivateFunc func(surface *Surface) (Host, error)

// Run starts the editor and activates caretip in the background. It returns
// when the user quits, after activation has finished; the caller owns
// deactivating the host.
func Run(activate ActivateFunc) error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	surface := NewSurface(p)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer logging.LogPanic("tui-activate", nil)

		host, err := activate(surface)
		if err != nil {
			slog.Error("activation failed", "error", err)
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(attachMsg{host: host})
	}()

	_, err := p.Run()
	<-done
	return err
}
