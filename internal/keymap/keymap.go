package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings. It satisfies key.Map so the
// help overlay can render it.
type KeyMap struct {
	// Navigation
	HistUpKey      key.Binding
	HistDownKey    key.Binding
	LogUpKey       key.Binding
	LogDownKey     key.Binding
	LogUpFastKey   key.Binding
	LogDownFastKey key.Binding
	LogTopKey      key.Binding
	LogBottomKey   key.Binding

	// Actions
	SendKey        key.Binding
	FindDeviceKey  key.Binding
	DisconnectKey  key.Binding
	AutoFlashKey   key.Binding
	StopWatchKey   key.Binding
	ToggleDTRKey   key.Binding
	ToggleRTSKey   key.Binding
	LineStatusKey  key.Binding
	OpenEditorKey  key.Binding
	ClearLogKey    key.Binding
	DeleteCmdKey   key.Binding
	HelpKey        key.Binding
	CloseKey       key.Binding
	QuitKey        key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.HelpKey, k.FindDeviceKey, k.AutoFlashKey, k.QuitKey}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.HistUpKey, k.HistDownKey, k.LogUpKey, k.LogDownKey,
			k.LogUpFastKey, k.LogDownFastKey, k.LogTopKey, k.LogBottomKey},
		{k.SendKey, k.FindDeviceKey, k.DisconnectKey, k.AutoFlashKey,
			k.StopWatchKey, k.ToggleDTRKey, k.ToggleRTSKey, k.LineStatusKey},
		{k.OpenEditorKey, k.ClearLogKey, k.DeleteCmdKey, k.HelpKey,
			k.CloseKey, k.QuitKey},
	}
}

// Default contains the default keybindings for the application.
var Default = KeyMap{
	HistUpKey: key.NewBinding(
		key.WithKeys("up", "ctrl+k"),
		key.WithHelp("↑/ctrl+k", "scroll commands"),
	),
	HistDownKey: key.NewBinding(
		key.WithKeys("down", "ctrl+j"),
		key.WithHelp("↓/ctrl+j", "scroll commands"),
	),
	LogUpKey: key.NewBinding(
		key.WithKeys("ctrl+up", "alt+k"),
		key.WithHelp("ctrl+↑/alt+k", "scroll log up"),
	),
	LogDownKey: key.NewBinding(
		key.WithKeys("ctrl+down", "alt+j"),
		key.WithHelp("ctrl+↓/alt+j", "scroll log down"),
	),
	LogUpFastKey: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "scroll log up fast"),
	),
	LogDownFastKey: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "scroll log down fast"),
	),
	LogTopKey: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("home", "log goto top"),
	),
	LogBottomKey: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("end", "log goto bottom"),
	),
	SendKey: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send data"),
	),
	FindDeviceKey: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "find device"),
	),
	DisconnectKey: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "disconnect"),
	),
	AutoFlashKey: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "arm auto-flash"),
	),
	StopWatchKey: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("ctrl+w", "disarm auto-flash"),
	),
	ToggleDTRKey: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "toggle DTR"),
	),
	ToggleRTSKey: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "toggle RTS"),
	),
	LineStatusKey: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "read line status"),
	),
	OpenEditorKey: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "open log in editor"),
	),
	ClearLogKey: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear log"),
	),
	DeleteCmdKey: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "delete command"),
	),
	HelpKey: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "show help"),
	),
	CloseKey: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss popup"),
	),
	QuitKey: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
