package popup

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teaflash/teaflash/internal/styles"
)

// CmdInput asks for the flash command line. The entered command is
// split into an argument vector and delivered once through the response
// channel; the #BIN# token is substituted later, at execution time.
type CmdInput struct {
	ti   textinput.Model
	resp chan []string
	done bool
}

// NewCmdInput creates the input, pre-filled with the configured default
// command.
func NewCmdInput(def string) (*CmdInput, <-chan []string) {
	ti := textinput.New()
	ti.Prompt = "$ "
	ti.CharLimit = 256
	ti.SetValue(def)
	ti.Focus()

	c := &CmdInput{
		ti:   ti,
		resp: make(chan []string, 1),
	}
	return c, c.resp
}

func (c *CmdInput) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		// dismissal and quit stay global
		return false
	}
	if msg.Type == tea.KeyEnter {
		argv := strings.Fields(c.ti.Value())
		if len(argv) == 0 || c.done {
			return true
		}
		c.resp <- argv
		close(c.resp)
		c.done = true
		return true
	}

	c.ti, _ = c.ti.Update(msg)
	return true
}

func (c *CmdInput) View(width, height int) string {
	w, _ := boxSize(width, height)
	body := lipgloss.NewStyle().Width(w).Render(c.ti.View())
	hint := styles.FooterStyle.Render("#BIN# is replaced by the watched file")
	return styles.PopupBorderStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.PopupTitleStyle.Render("Flash command"), body, hint))
}

func (c *CmdInput) Alive() bool {
	return !c.done
}

// Close cancels the pending command entry.
func (c *CmdInput) Close() {
	if !c.done {
		close(c.resp)
		c.done = true
	}
}
