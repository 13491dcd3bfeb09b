package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case PaintMsg:
		m.mark.color = msg.Color
		m.header.SetColor(msg.Color)
		m.status.SetColor(msg.Color)
		return m, nil

	case ConnMsg:
		m.header.SetConnectionState(msg.State)
		return m, nil

	case HelperMsg:
		m.header.HandleHelperEvent(msg.Event)
		return m, nil

	case StatusMsg:
		m.status.SetStatus(msg.Status)
		return m, nil

	case ErrMsg:
		m.status.SetError(msg.Err)
		return m, nil

	case attachMsg:
		m.host = msg.host
		return m, nil
	}

	cmd, moved := m.Active().Update(msg)
	if moved {
		m.cursorMoved()
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.NextBuffer):
		return m, m.switchTo((m.active + 1) % len(m.buffers))

	case key.Matches(msg, m.keys.PrevBuffer):
		return m, m.switchTo((m.active - 1 + len(m.buffers)) % len(m.buffers))

	case key.Matches(msg, m.keys.NewBuffer):
		m.addBuffer()
		return m, m.switchTo(len(m.buffers) - 1)

	case key.Matches(msg, m.keys.CloseBuf):
		if len(m.buffers) == 1 {
			return m, nil
		}
		m.buffers = append(m.buffers[:m.active:m.active], m.buffers[m.active+1:]...)
		next := m.active
		if next >= len(m.buffers) {
			next = len(m.buffers) - 1
		}
		m.active = -1
		return m, m.switchTo(next)
	}

	cmd, moved := m.Active().Update(msg)
	if moved {
		m.cursorMoved()
	}
	return m, cmd
}

// switchTo focuses buffer i and tells the host the active editor changed.
func (m *Model) switchTo(i int) tea.Cmd {
	if i == m.active {
		return nil
	}
	if m.active >= 0 && m.active < len(m.buffers) {
		m.buffers[m.active].Blur()
	}
	m.active = i
	b := m.buffers[i]
	m.status.SetBuffer(b.String())
	if m.host != nil {
		m.host.EditorChanged()
	}
	return b.Focus()
}

func (m *Model) cursorMoved() {
	m.status.SetBuffer(m.Active().String())
	if m.host != nil {
		m.host.CursorMoved()
	}
}
