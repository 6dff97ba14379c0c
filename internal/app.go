package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/teaflash/teaflash/events"
	"github.com/teaflash/teaflash/internal/cmdhist"
	"github.com/teaflash/teaflash/internal/footer"
	"github.com/teaflash/teaflash/internal/input"
	"github.com/teaflash/teaflash/internal/msglog"
	"github.com/teaflash/teaflash/internal/popup"
	"github.com/teaflash/teaflash/internal/session"
	"github.com/teaflash/teaflash/internal/styles"
	"github.com/teaflash/teaflash/internal/watcher"
)

// Options are the startup defaults handed in by the command layer. They
// are never re-parsed at runtime.
type Options struct {
	Device      string
	Baud        session.Baud
	FlashCmd    []string
	WatchPath   string
	Timestamp   bool
	ShowEscapes bool
	LogLimit    int
	History     []string
	Mock        bool
}

// DeviceConnectedMsg installs a freshly opened serial session and the
// configuration it was opened from. This is the only place the
// remembered configuration is written.
type DeviceConnectedMsg struct {
	Conn   *session.Conn
	Config session.DeviceConfig
}

// AutoFlashArmedMsg installs a freshly armed auto-flash watcher,
// replacing (and stopping) any previous one.
type AutoFlashArmedMsg struct {
	Watcher *watcher.Watcher
}

// connectFailedMsg resets the connecting indicator after a failed open.
type connectFailedMsg struct{}

// App is the application core: the single consumer of the inbox and
// the sole owner of the popup stack, the serial session handle, the
// remembered device configuration and the auto-flash watcher handle.
// All actors talk to it through its Messenger; none of them touch this
// state directly.
type App struct {
	app   events.Messenger
	stack []events.Popup

	conn  *session.Conn
	cfg   *session.DeviceConfig
	watch *watcher.Watcher

	msglog msglog.Model
	hist   cmdhist.Model
	input  input.Model
	footer footer.Model
	sp     spinner.Model

	device string
	status int
	dtr    bool
	rts    bool
	cts    bool

	width  int
	height int

	opts Options

	// injection points for tests
	openPort  func(session.DeviceConfig) (session.Port, error)
	enumerate func() ([]session.Device, error)
}

// NewApp builds the initial model.
func NewApp(opts Options) App {
	if opts.LogLimit <= 0 {
		opts.LogLimit = 2000
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := App{
		app:       events.NewMessenger(),
		msglog:    msglog.New(opts.Timestamp, opts.ShowEscapes, opts.LogLimit),
		hist:      cmdhist.New(opts.History),
		input:     input.New(),
		footer:    footer.New(),
		sp:        sp,
		status:    footer.StatusDisconnected,
		rts:       true,
		opts:      opts,
		enumerate: session.Enumerate,
	}
	m.openPort = func(cfg session.DeviceConfig) (session.Port, error) {
		return cfg.Open()
	}
	if opts.Mock {
		m.openPort = func(session.DeviceConfig) (session.Port, error) {
			return session.OpenMockPort(), nil
		}
	}
	return m
}

// Messenger returns the handle background tasks use to reach the inbox.
func (m App) Messenger() events.Messenger {
	return m.app
}

// History returns the command history for persistence at shutdown.
func (m App) History() []string {
	return m.hist.History()
}

func (m App) Init() tea.Cmd {
	if m.opts.Device != "" || m.opts.Mock {
		cfg := session.DefaultConfig(m.opts.Device, m.opts.Baud)
		go connect(m.app, cfg, m.openPort)
	}
	if m.opts.WatchPath != "" && len(m.opts.FlashCmd) > 0 {
		go armWatch(m.app, m.opts.WatchPath, m.opts.FlashCmd)
	}
	return textarea.Blink
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	DbgLogMsgType(msg)

	// dead popups are collected once per cycle, not per event
	m.prune()

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.layout(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.hist, cmd = m.hist.Update(msg)
		cmds = append(cmds, cmd)
		m.msglog, _ = m.msglog.Update(msg)

	case events.PushPopupMsg:
		m.stack = append(m.stack, msg.Popup)

	case events.DismissTopMsg:
		if len(m.stack) == 0 {
			// dismissing with nothing shown is the intentional way out
			return m, tea.Quit
		}
		top := m.stack[len(m.stack)-1]
		top.Close()
		m.stack = m.stack[:len(m.stack)-1]

	case events.QuitMsg:
		return m, tea.Quit

	case events.WizardDoneMsg:
		m.prune()

	case events.NotifyMsg:
		m.msglog, _ = m.msglog.Update(msg)
		if msg.Popup {
			m.stack = append(m.stack, popup.NewNotification(msg.Severity, msg.Text))
		}

	case events.ErrMsg:
		m.msglog, _ = m.msglog.Update(msg)

	case events.RequestDeviceWizardMsg:
		go runDeviceWizard(m.app, session.DefaultConfig("", m.opts.Baud), m.enumerate, m.openPort)

	case events.RequestAutoFlashMsg:
		go runAutoFlashWizard(m.app, ".", flashCmdDefault(m.opts))

	case events.DisarmAutoFlashMsg:
		if m.watch != nil {
			m.watch.Stop()
			m.watch = nil
			m.logf(events.Info, "auto-flash disarmed")
		}

	case DeviceConnectedMsg:
		m.conn = msg.Conn
		cfg := msg.Config
		m.cfg = &cfg

	case AutoFlashArmedMsg:
		if m.watch != nil {
			m.watch.Stop()
		}
		m.watch = msg.Watcher
		m.logf(events.Info, "auto-flash armed, watching %s", msg.Watcher.Path())

	case events.SerialConnectedMsg:
		m.device = msg.Name
		m.status = footer.StatusConnected
		m.logf(events.Info, "Connected: %s", msg.Name)
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

	case events.SerialRxMsg:
		m.msglog, _ = m.msglog.Update(msg)

	case events.LineStatusMsg:
		m.dtr = msg.DTR
		m.cts = msg.CTS

	case events.SerialGoneMsg:
		m.conn = nil
		m.status = footer.StatusDisconnected
		if m.watch != nil {
			m.watch.Reply(watcher.Disconnected)
		}
		m.logf(events.Info, "Disconnected")
		m.input, _ = m.input.Update(msg)

	case events.SendMsg:
		m.sendSerial(session.Write(append([]byte(msg.Data), '\r', '\n')))
		m.msglog, _ = m.msglog.Update(msg)
		m.hist, cmd = m.hist.Update(msg)
		cmds = append(cmds, cmd)
		m.input, _ = m.input.Update(msg)

	case events.SetDTRMsg:
		m.sendSerial(session.SetDTR(bool(msg)))

	case events.SetRTSMsg:
		m.rts = bool(msg)
		m.sendSerial(session.SetRTS(bool(msg)))

	case events.ReadStatusMsg:
		m.sendSerial(session.ReadStatus{})

	case events.DisconnectMsg:
		m.sendSerial(session.Disconnect{})

	case events.WatcherDisconnectRequestMsg:
		m.handleWatcherDisconnect()

	case events.WatcherReconnectRequestMsg:
		if m.cfg == nil {
			m.logf(events.Error, "no remembered device configuration to reconnect with")
			break
		}
		m.status = footer.StatusConnecting
		cmds = append(cmds, m.sp.Tick)
		cfg := *m.cfg
		go reconnect(m.app, cfg, m.openPort)

	case connectFailedMsg:
		if m.conn == nil {
			m.status = footer.StatusDisconnected
		}

	case events.HistCmdSelected:
		m.input, _ = m.input.Update(msg)

	case msglog.EditorFinishedMsg:
		if msg.Err != nil {
			m.logf(events.Error, "editor: %v", msg.Err)
		}

	case spinner.TickMsg:
		if m.status == footer.StatusConnecting {
			m.sp, cmd = m.sp.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		// cursor blink and friends
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m App) View() string {
	viewports := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.msglog.View(),
		m.hist.View(),
	)

	screen := lipgloss.JoinVertical(
		lipgloss.Left,
		viewports,
		m.input.View(),
		m.footer.View(m.device, m.status, m.dtr, m.cts, m.watchPath(), m.sp),
	)

	base := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, screen)

	for _, p := range m.stack {
		if !p.Alive() {
			continue
		}
		base = overlay.Composite(p.View(m.width, m.height), base,
			overlay.Center, overlay.Center, 0, 0)
	}

	return zone.Scan(base)
}

// sendSerial delivers a command to the active session. A failed send
// means the session is gone; the handle is dropped and, unless the
// command was the disconnect itself, the failure is surfaced.
// Without any session, Disconnect is silently accepted.
func (m *App) sendSerial(c session.Command) {
	_, isDisconnect := c.(session.Disconnect)

	if m.conn == nil {
		if !isDisconnect {
			m.logf(events.Error, "Not currently connected to a device")
		}
		return
	}
	if err := m.conn.Send(c); err != nil {
		m.conn = nil
		if !isDisconnect {
			m.logf(events.Error, "device is gone: %v", err)
		}
	}
}

// handleWatcherDisconnect is the first half of the auto-flash
// handshake. With a live session the disconnect is forwarded and the
// watcher's reply arrives once the session reports Gone; the loop is
// never blocked waiting for it. Without one the watcher is released
// immediately.
func (m *App) handleWatcherDisconnect() {
	if m.conn == nil {
		m.logf(events.Error, "Cannot flash when no device is connected")
		if m.watch != nil {
			m.watch.Reply(watcher.NoDevice)
		}
		return
	}
	if err := m.conn.Send(session.Disconnect{}); err != nil {
		// session died before the request; treat like an observed Gone
		m.conn = nil
		m.status = footer.StatusDisconnected
		if m.watch != nil {
			m.watch.Reply(watcher.Disconnected)
		}
	}
}

// logf appends a notification line to the message log.
func (m *App) logf(sev events.Severity, format string, args ...any) {
	m.msglog, _ = m.msglog.Update(events.NotifyMsg{Severity: sev, Text: fmt.Sprintf(format, args...)})
}

func (m *App) prune() {
	alive := m.stack[:0]
	for _, p := range m.stack {
		if p.Alive() {
			alive = append(alive, p)
		}
	}
	m.stack = alive
}

func (m *App) layout(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	const footerHeight = 1
	inputHeight := lipgloss.Height(m.input.View())

	logWidth := m.width / 4 * 3
	histWidth := m.width - logWidth
	paneHeight := m.height - inputHeight - footerHeight

	m.msglog.SetSize(logWidth, paneHeight)
	m.hist.SetSize(histWidth, paneHeight)
	m.input.SetWidth(m.width)
	m.footer.SetWidth(m.width)
}

func (m App) watchPath() string {
	if m.watch == nil {
		return ""
	}
	return m.watch.Path()
}

func flashCmdDefault(opts Options) string {
	return strings.Join(opts.FlashCmd, " ")
}
