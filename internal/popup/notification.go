package popup

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teaflash/teaflash/events"
	"github.com/teaflash/teaflash/internal/styles"
)

// Notification shows a message in a centered box. Any key dismisses
// it, except quit which stays global.
type Notification struct {
	text     string
	severity events.Severity
	closed   bool
}

func NewNotification(sev events.Severity, text string) *Notification {
	return &Notification{text: text, severity: sev}
}

func (n *Notification) HandleKey(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyCtrlC {
		return false
	}
	n.closed = true
	return true
}

func (n *Notification) View(width, height int) string {
	w, _ := boxSize(width, height)

	style := styles.InfoMsgStyle
	if n.severity == events.Error {
		style = styles.ErrMsgStyle
	}
	body := style.Width(w).Align(lipgloss.Center).Render(n.text)
	return styles.PopupBorderStyle.Render(body)
}

func (n *Notification) Alive() bool {
	return !n.closed
}

func (n *Notification) Close() {
	n.closed = true
}
