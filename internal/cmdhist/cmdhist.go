package cmdhist

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/teaflash/teaflash/events"
	"github.com/teaflash/teaflash/internal/keymap"
	"github.com/teaflash/teaflash/internal/styles"
)

// Model is the command history pane. The selection index one past the
// end means "nothing selected". Selecting an entry mirrors it into the
// input field; clicking an entry sends it right away.
type Model struct {
	Vp    viewport.Model
	hist  []string
	index int
}

// New creates the history pane, optionally pre-filled from the
// persisted history.
func New(hist []string) (m Model) {
	m.Vp = viewport.New(30, 5)
	for _, cmd := range hist {
		if cmd != "" {
			m.hist = append(m.hist, cmd)
		}
	}
	m.index = len(m.hist)
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case events.SendMsg:
		if !msg.FromHist {
			return m, m.add(msg.Data)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keymap.Default.HistUpKey):
			return m, m.scrollUp()
		case key.Matches(msg, keymap.Default.HistDownKey):
			return m, m.scrollDown()
		case key.Matches(msg, keymap.Default.DeleteCmdKey):
			return m, m.deleteSelected()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	for i := range m.hist {
		if zone.Get("hist" + strconv.Itoa(i)).InBounds(msg) {
			m.index = i
		}
	}

	cmd := m.updateView()

	if m.index == len(m.hist) || msg.Button != tea.MouseButtonLeft {
		return m, cmd
	}
	if msg.Action == tea.MouseActionRelease {
		data := m.hist[m.index]
		return m, func() tea.Msg {
			return events.SendMsg{Data: data, FromHist: true}
		}
	}
	return m, cmd
}

func (m Model) View() string {
	return styles.AddBorder(m.Vp, "Commands", "", false)
}

func (m *Model) SetSize(width, height int) {
	borderWidth, borderHeight := styles.BorderStyle.GetFrameSize()
	m.Vp.Width = width - borderWidth
	m.Vp.Height = height - borderHeight
	m.Reset()
}

// History returns the current entries, oldest first.
func (m Model) History() []string {
	return m.hist
}

func (m *Model) scrollUp() tea.Cmd {
	if m.index > 0 {
		m.index--
	}
	if m.index < m.Vp.YOffset {
		m.Vp.ScrollUp(1)
	}
	return m.updateView()
}

func (m *Model) scrollDown() tea.Cmd {
	if m.index >= len(m.hist) {
		return nil
	}
	m.index++
	if m.index < len(m.hist) {
		bottomEdge := m.Vp.YOffset + m.Vp.Height - 1
		if m.index > bottomEdge {
			m.Vp.ScrollDown(1)
		}
	}
	return m.updateView()
}

// updateView rerenders the pane and reports the current selection so
// the input field can mirror it.
func (m *Model) updateView() tea.Cmd {
	lines := make([]string, len(m.hist))
	selected := ""
	for i, cmd := range m.hist {
		if i == m.index {
			lines[i] = zone.Mark("hist"+strconv.Itoa(i), styles.SelectedCmdStyle.Render("> "+cmd))
			selected = cmd
		} else {
			lines[i] = zone.Mark("hist"+strconv.Itoa(i), cmd)
		}
	}
	m.Vp.SetContent(strings.Join(lines, "\n"))

	sel := selected
	return func() tea.Msg { return events.HistCmdSelected(sel) }
}

func (m *Model) deleteSelected() tea.Cmd {
	if m.index == len(m.hist) {
		return nil
	}
	m.hist = append(m.hist[:m.index], m.hist[m.index+1:]...)
	return m.Reset()
}

// Reset clears the selection and scrolls to the bottom.
func (m *Model) Reset() tea.Cmd {
	if m.Vp.Height <= 0 {
		return nil
	}
	m.index = len(m.hist)
	cmd := m.updateView()
	m.Vp.GotoBottom()
	return cmd
}

// add appends a command. A command already present is moved to the end
// instead of duplicated.
func (m *Model) add(newCmd string) tea.Cmd {
	for i, cmd := range m.hist {
		if cmd == newCmd {
			m.hist = append(m.hist[:i], m.hist[i+1:]...)
			break
		}
	}
	m.hist = append(m.hist, newCmd)
	return m.Reset()
}
