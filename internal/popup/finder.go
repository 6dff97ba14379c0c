package popup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teaflash/teaflash/internal/session"
	"github.com/teaflash/teaflash/internal/styles"
)

// Finder lets the user pick one of the enumerated serial devices. The
// selected device path is delivered once through the response channel.
type Finder struct {
	devices []session.Device
	cursor  int
	resp    chan string
	done    bool
}

// NewFinder creates the device picker. The caller receives the path of
// the selected device, or a closed channel if the popup was dismissed.
func NewFinder(devices []session.Device) (*Finder, <-chan string) {
	f := &Finder{
		devices: devices,
		resp:    make(chan string, 1),
	}
	return f, f.resp
}

func (f *Finder) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if f.cursor > 0 {
			f.cursor--
		}
		return true
	case tea.KeyDown:
		if f.cursor < len(f.devices)-1 {
			f.cursor++
		}
		return true
	case tea.KeyEnter:
		if f.done {
			return true
		}
		f.resp <- f.devices[f.cursor].Path
		close(f.resp)
		f.done = true
		return true
	}
	return false
}

func (f *Finder) View(width, height int) string {
	w, h := boxSize(width, height)

	lines := make([]string, 0, len(f.devices))
	for i, d := range f.devices {
		label := d.Label()
		if i == f.cursor {
			label = styles.SelectedCmdStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		lines = append(lines, label)
	}
	if len(lines) > h {
		// keep the cursor visible
		start := f.cursor - h + 1
		if start < 0 {
			start = 0
		}
		lines = lines[start : start+h]
	}

	body := lipgloss.NewStyle().Width(w).Height(h).
		Render(strings.Join(lines, "\n"))
	return styles.PopupBorderStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.PopupTitleStyle.Render("Select device"), body))
}

func (f *Finder) Alive() bool {
	return !f.done
}

// Close cancels the pending selection.
func (f *Finder) Close() {
	if !f.done {
		close(f.resp)
		f.done = true
	}
}
