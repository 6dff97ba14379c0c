package internal

import (
	"github.com/teaflash/teaflash/events"
	"github.com/teaflash/teaflash/internal/popup"
	"github.com/teaflash/teaflash/internal/session"
	"github.com/teaflash/teaflash/internal/watcher"
)

// The wizards run as background sequences, one goroutine each. Every
// stage pushes a popup and blocks on its response channel; a dismissed
// popup closes the channel, which aborts the whole sequence. The
// application loop stays responsive throughout.

// runDeviceWizard walks enumerate, device selection and configuration,
// then opens the chosen port.
func runDeviceWizard(app events.Messenger, defaults session.DeviceConfig,
	enumerate func() ([]session.Device, error),
	open func(session.DeviceConfig) (session.Port, error)) {

	devices, err := enumerate()
	if err != nil {
		app.NotifyPopup(events.Error, "could not list serial ports: %v", err)
		return
	}
	if len(devices) == 0 {
		app.NotifyPopup(events.Warning, "no serial devices found")
		return
	}

	finder, selected := popup.NewFinder(devices)
	app.PushPopup(finder)
	path, ok := <-selected
	if !ok {
		return
	}

	defaults.Path = path
	configurer, committed := popup.NewConfigurer(defaults)
	app.PushPopup(configurer)
	cfg, ok := <-committed
	if !ok {
		return
	}

	connect(app, cfg, open)
	app.Send(events.WizardDoneMsg{})
}

// runAutoFlashWizard walks file selection and flash command input, then
// arms the watcher.
func runAutoFlashWizard(app events.Messenger, startDir, defaultCmd string) {
	viewer, selected, err := popup.NewFileViewer(startDir)
	if err != nil {
		app.NotifyPopup(events.Error, "could not read %s: %v", startDir, err)
		return
	}
	app.PushPopup(viewer)
	file, ok := <-selected
	if !ok {
		return
	}

	cmdInput, entered := popup.NewCmdInput(defaultCmd)
	app.PushPopup(cmdInput)
	argv, ok := <-entered
	if !ok {
		return
	}

	armWatch(app, file, argv)
	app.Send(events.WizardDoneMsg{})
}

// connect opens a port and hands the running session to the
// application. Reports whether the port could be opened.
func connect(app events.Messenger, cfg session.DeviceConfig,
	open func(session.DeviceConfig) (session.Port, error)) bool {

	port, err := open(cfg)
	if err != nil {
		app.NotifyPopup(events.Error, "could not connect to serial port: %v", err)
		return false
	}
	conn := session.Start(port, cfg.Path, cfg.DTROnOpen, app)
	app.Send(DeviceConnectedMsg{Conn: conn, Config: cfg})
	return true
}

// reconnect is the watcher-driven variant of connect: a failed open is
// reported but not retried, and the connecting indicator is reset.
func reconnect(app events.Messenger, cfg session.DeviceConfig,
	open func(session.DeviceConfig) (session.Port, error)) {

	if !connect(app, cfg, open) {
		app.Send(connectFailedMsg{})
	}
}

// armWatch starts a watcher on path and hands it to the application.
func armWatch(app events.Messenger, path string, argv []string) {
	w, err := watcher.Start(path, argv, app)
	if err != nil {
		app.NotifyPopup(events.Error, "could not watch %s: %v", path, err)
		return
	}
	app.Send(AutoFlashArmedMsg{Watcher: w})
}
