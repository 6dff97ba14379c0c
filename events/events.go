package events

// defines all shared event messages and the Messenger handle used by
// background tasks to enqueue messages into the application inbox

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Severity of a log notification.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// Popup is an interactive component living on the popup stack. Input is
// offered to popups in reverse stack order, first handler wins. A popup
// that reports !Alive() is removed once per draw cycle. Close cancels
// the popup's pending response, if any; closing an already closed popup
// is a no-op.
type Popup interface {
	HandleKey(msg tea.KeyMsg) bool
	View(width, height int) string
	Alive() bool
	Close()
}

// NotifyMsg appends a severity-tagged line to the on-screen log. If
// Popup is set, the text is additionally shown as a notification popup.
type NotifyMsg struct {
	Severity Severity
	Text     string
	Popup    bool
}

// ErrMsg carries an internal error into the update loop, where it is
// turned into user-visible text.
type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

// PushPopupMsg places a new popup on top of the stack.
type PushPopupMsg struct{ Popup Popup }

// DismissTopMsg removes the topmost popup. Dismissing with an empty
// stack exits the application.
type DismissTopMsg struct{}

// QuitMsg ends the main loop after one final render.
type QuitMsg struct{}

// RequestDeviceWizardMsg starts the device discovery sequence.
type RequestDeviceWizardMsg struct{}

// RequestAutoFlashMsg starts the file selection and command input
// sequence that arms the auto-flash watcher.
type RequestAutoFlashMsg struct{}

// DisarmAutoFlashMsg stops the active auto-flash watcher, if any.
type DisarmAutoFlashMsg struct{}

// WizardDoneMsg signals that a wizard finished and its stale popups can
// be pruned.
type WizardDoneMsg struct{}

// SerialConnectedMsg is emitted by the serial session once the port is
// open and the read loop is about to start.
type SerialConnectedMsg struct{ Name string }

// SerialRxMsg carries a chunk of bytes received from the serial port.
type SerialRxMsg []byte

// LineStatusMsg reports the current control line state.
type LineStatusMsg struct {
	DTR bool
	CTS bool
}

// SerialGoneMsg is the terminal event of a serial session. It is
// emitted exactly once; afterwards sends to the session fail.
type SerialGoneMsg struct{}

// SendMsg asks the application to write a line of user input to the
// connected device.
type SendMsg struct {
	Data     string
	FromHist bool
}

// HistCmdSelected indicates a command from the command history was selected.
type HistCmdSelected string

// Control line and status requests, issued from keybindings.
type (
	SetDTRMsg     bool
	SetRTSMsg     bool
	ReadStatusMsg struct{}
	// DisconnectMsg closes the active serial session. Without a
	// connected device it is a silent no-op.
	DisconnectMsg struct{}
)

// WatcherDisconnectRequestMsg is the first half of the auto-flash
// handshake: the watcher asks for the serial link to be quiesced and
// then blocks until it is answered through its reply channel.
type WatcherDisconnectRequestMsg struct{}

// WatcherReconnectRequestMsg asks the application to reopen the serial
// session from the remembered device configuration.
type WatcherReconnectRequestMsg struct{}

// Messenger is a cheap, copyable capability to enqueue inbox messages.
// Background tasks hold a Messenger instead of a reference to any
// application state.
type Messenger struct {
	ch chan tea.Msg
}

// NewMessenger creates the application inbox side channel. The single
// consumer is expected to drain Inbox and forward into the bubbletea
// program.
func NewMessenger() Messenger {
	return Messenger{ch: make(chan tea.Msg, 128)}
}

// Send enqueues a message. Order is preserved per sender.
func (m Messenger) Send(msg tea.Msg) {
	m.ch <- msg
}

// Notify enqueues a formatted log notification.
func (m Messenger) Notify(sev Severity, format string, args ...any) {
	m.Send(NotifyMsg{Severity: sev, Text: fmt.Sprintf(format, args...)})
}

// NotifyPopup enqueues a log notification that is also surfaced as a
// notification popup.
func (m Messenger) NotifyPopup(sev Severity, format string, args ...any) {
	m.Send(NotifyMsg{Severity: sev, Text: fmt.Sprintf(format, args...), Popup: true})
}

// PushPopup enqueues a new popup for the stack.
func (m Messenger) PushPopup(p Popup) {
	m.Send(PushPopupMsg{Popup: p})
}

// Inbox returns the receive side of the messenger channel.
func (m Messenger) Inbox() <-chan tea.Msg {
	return m.ch
}
