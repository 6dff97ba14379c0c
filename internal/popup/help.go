package popup

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teaflash/teaflash/internal/keymap"
	"github.com/teaflash/teaflash/internal/styles"
)

// Help overlays the full keybinding reference.
type Help struct {
	help   help.Model
	closed bool
}

func NewHelp() *Help {
	h := help.New()
	h.ShowAll = true
	return &Help{help: h}
}

func (h *Help) HandleKey(tea.KeyMsg) bool {
	return false
}

func (h *Help) View(width, height int) string {
	w, _ := boxSize(width, height)
	h.help.Width = w

	title := lipgloss.NewStyle().Bold(true).Render("Teaflash keybindings\n")
	layout := lipgloss.JoinVertical(lipgloss.Left, title, h.help.View(keymap.Default))
	return styles.HelpOverlayBorderStyle.Render(layout)
}

func (h *Help) Alive() bool {
	return !h.closed
}

func (h *Help) Close() {
	h.closed = true
}
