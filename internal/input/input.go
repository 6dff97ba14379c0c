package input

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teaflash/teaflash/events"
	"github.com/teaflash/teaflash/internal/styles"
)

// Model is the single-line text area commands are typed into.
type Model struct {
	Ta textarea.Model
}

// New creates a new model with default settings.
func New() (m Model) {
	m.Ta = textarea.New()
	m.Ta.SetWidth(30)
	m.Ta.SetHeight(1)
	m.Ta.Placeholder = "Not connected"
	m.Ta.Prompt = "> "
	m.Ta.CharLimit = 256
	m.Ta.ShowLineNumbers = false
	m.Ta.KeyMap.InsertNewline.SetEnabled(false)
	m.Ta.Cursor.Style = styles.CursorStyle
	m.Ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	m.Ta.FocusedStyle.Placeholder = styles.FocusedPlaceholderStyle
	m.Ta.FocusedStyle.Prompt = styles.FocusedPromtStyle
	m.Ta.BlurredStyle.Prompt = styles.BlurredPromtStyle
	m.Ta.FocusedStyle.Base = styles.BorderStyle
	m.Ta.BlurredStyle.Base = styles.BorderStyle

	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	m.Ta, cmd = m.Ta.Update(msg)
	if cmd != nil {
		return m, cmd
	}

	switch msg := msg.(type) {

	case events.SerialConnectedMsg:
		return m, m.setConnected()

	case events.SerialGoneMsg:
		m.setDisconnected()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			if m.Ta.Value() == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return events.SendMsg{Data: m.Ta.Value()}
			}
		}

	case events.SendMsg:
		m.Ta.Reset()
		return m, nil

	case events.HistCmdSelected:
		if string(msg) == "" {
			m.Ta.Reset()
		} else {
			m.Ta.SetValue(string(msg))
			m.Ta.SetCursor(len(m.Ta.Value()))
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	return m.Ta.View()
}

func (m *Model) SetWidth(w int) {
	m.Ta.SetWidth(w)
}

func (m *Model) setDisconnected() {
	m.Ta.Reset()
	m.Ta.Placeholder = "Not connected"
	m.Ta.Blur()
}

func (m *Model) setConnected() tea.Cmd {
	m.Ta.Reset()
	m.Ta.Placeholder = "Send a message..."
	return m.Ta.Focus()
}
