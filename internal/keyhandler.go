package internal

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teaflash/teaflash/events"
	"github.com/teaflash/teaflash/internal/keymap"
	"github.com/teaflash/teaflash/internal/popup"
)

// handleKey routes keyboard input. Popups get first refusal, topmost
// first; an unclaimed key falls through to the global bindings, and
// only with no popup shown does it reach the dashboard panes.
func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for i := len(m.stack) - 1; i >= 0; i-- {
		p := m.stack[i]
		if p.Alive() && p.HandleKey(msg) {
			return m, nil
		}
	}

	if cmd := m.globalKey(msg); cmd != nil {
		return m, cmd
	}

	if len(m.stack) > 0 {
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.hist, cmd = m.hist.Update(msg)
	cmds = append(cmds, cmd)
	m.msglog, cmd = m.msglog.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// globalKey turns a global keybinding into its application command.
// Keybindings never mutate state directly; the synthesized message goes
// through the regular update cycle like any other event.
func (m App) globalKey(msg tea.KeyMsg) tea.Cmd {
	km := keymap.Default

	switch {
	case key.Matches(msg, km.QuitKey):
		return emit(events.QuitMsg{})
	case key.Matches(msg, km.CloseKey):
		return emit(events.DismissTopMsg{})
	case key.Matches(msg, km.FindDeviceKey):
		return emit(events.RequestDeviceWizardMsg{})
	case key.Matches(msg, km.DisconnectKey):
		return emit(events.DisconnectMsg{})
	case key.Matches(msg, km.AutoFlashKey):
		return emit(events.RequestAutoFlashMsg{})
	case key.Matches(msg, km.StopWatchKey):
		return emit(events.DisarmAutoFlashMsg{})
	case key.Matches(msg, km.ToggleDTRKey):
		return emit(events.SetDTRMsg(!m.dtr))
	case key.Matches(msg, km.ToggleRTSKey):
		return emit(events.SetRTSMsg(!m.rts))
	case key.Matches(msg, km.LineStatusKey):
		return emit(events.ReadStatusMsg{})
	case key.Matches(msg, km.HelpKey):
		return emit(events.PushPopupMsg{Popup: popup.NewHelp()})
	}
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
