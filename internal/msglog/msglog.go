package msglog

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/icza/gox/stringsx"

	"github.com/teaflash/teaflash/events"
	"github.com/teaflash/teaflash/internal/keymap"
	"github.com/teaflash/teaflash/internal/styles"
)

// Model is the central log surface: serial traffic in both directions
// plus severity-tagged notifications, with scrollback and an export to
// $EDITOR.
type Model struct {
	Vp viewport.Model

	log     []string
	partial string // received bytes of a not yet complete line

	showTimestamp bool
	showEscapes   bool
	logLimit      int
	msgCnt        int // rx and tx messages during one session
	scrollIndex   int
	needsUpdate   bool
}

// EditorFinishedMsg is sent when the spawned editor exits.
type EditorFinishedMsg struct{ Err error }

const (
	rxMsg = iota
	txMsg
	errMsg
	warnMsg
	infoMsg
)

// New creates the log model.
func New(showTimestamp, showEscapes bool, logLimit int) (m Model) {
	m.Vp = viewport.New(30, 5)
	// Scrolling is managed manually; disable the viewport's own keys.
	m.Vp.KeyMap.Up.SetEnabled(false)
	m.Vp.KeyMap.Down.SetEnabled(false)
	m.Vp.KeyMap.PageUp.SetEnabled(false)
	m.Vp.KeyMap.PageDown.SetEnabled(false)

	m.showTimestamp = showTimestamp
	m.showEscapes = showEscapes
	m.logLimit = logLimit
	m.log = []string{m.startMsg()}

	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case events.SendMsg:
		m.addMsg(msg.Data, txMsg)

	case events.SerialRxMsg:
		m.addData([]byte(msg))

	case events.NotifyMsg:
		switch msg.Severity {
		case events.Error:
			m.addMsg(msg.Text, errMsg)
		case events.Warning:
			m.addMsg(msg.Text, warnMsg)
		default:
			m.addMsg(msg.Text, infoMsg)
		}

	case events.ErrMsg:
		if msg.Err != nil {
			m.addMsg(msg.Error(), errMsg)
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollUp(1)
		case tea.MouseButtonWheelDown:
			m.scrollDown(1)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keymap.Default.LogUpKey):
			m.scrollUp(1)
		case key.Matches(msg, keymap.Default.LogDownKey):
			m.scrollDown(1)
		case key.Matches(msg, keymap.Default.LogUpFastKey):
			m.scrollUp(10)
		case key.Matches(msg, keymap.Default.LogDownFastKey):
			m.scrollDown(10)
		case key.Matches(msg, keymap.Default.LogTopKey):
			m.scrollToTop()
		case key.Matches(msg, keymap.Default.LogBottomKey):
			m.scrollToBottom()
		case key.Matches(msg, keymap.Default.OpenEditorKey):
			return m, openEditorCmd(m.log)
		case key.Matches(msg, keymap.Default.ClearLogKey):
			m.log = []string{m.startMsg()}
			m.partial = ""
			m.msgCnt = 0
			m.scrollToBottom()
			m.needsUpdate = true
		}

	default:
		return m, nil
	}

	if m.needsUpdate {
		m.needsUpdate = false
		m.UpdateVp()
	}

	return m, nil
}

func (m Model) View() string {
	borderStyle := styles.FooterStyle
	percentStyle := borderStyle
	if !m.atBottom() {
		percentStyle = styles.PercentRenderStyle
	}
	percent := percentStyle.Render(fmt.Sprintf("%3d%%", int(m.GetScrollPercent())))

	footer := borderStyle.Render(fmt.Sprintf("%d ", m.msgCnt)) + percent
	return styles.AddBorder(m.Vp, "Messages", footer, true)
}

func (m *Model) SetSize(width, height int) {
	borderWidth, borderHeight := styles.BorderStyle.GetFrameSize()

	m.Vp.Width = width - borderWidth
	m.Vp.Height = height - borderHeight

	m.scrollIndex = 0
	m.needsUpdate = true
	m.UpdateVp()
}

// addData buffers raw received bytes and appends a log line for every
// completed line. No terminal emulation beyond that.
func (m *Model) addData(data []byte) {
	m.partial += string(data)
	for {
		i := strings.IndexByte(m.partial, '\n')
		if i < 0 {
			return
		}
		line := strings.TrimRight(m.partial[:i], "\r")
		m.partial = m.partial[i+1:]
		m.addMsg(line, rxMsg)
	}
}

// addMsg appends one line to the log.
func (m *Model) addMsg(msg string, msgType int) {
	var line strings.Builder
	if m.showTimestamp {
		t := time.Now().Format("15:04:05.000")
		line.WriteString(fmt.Sprintf("[%s] ", t))
	}

	switch msgType {
	case errMsg:
		line.WriteString("ERROR: ")
	case warnMsg:
		line.WriteString("WARN: ")
	case infoMsg:
		line.WriteString("INFO: ")
	default:
		m.msgCnt++
	}

	if m.showEscapes {
		line.WriteString(fmt.Sprintf("%q", msg))
	} else {
		line.WriteString(stringsx.Clean(msg))
	}

	atBottom := m.atBottom()

	var rendered string
	switch msgType {
	case txMsg:
		rendered = styles.VpTxMsgStyle.Render(line.String())
	case errMsg:
		rendered = styles.ErrMsgStyle.Render(line.String())
	case warnMsg:
		rendered = styles.WarnMsgStyle.Render(line.String())
	case infoMsg:
		rendered = styles.InfoMsgStyle.Render(line.String())
	default:
		rendered = line.String()
	}

	m.log = append(m.log, rendered)

	// history limit, drop the oldest lines when exceeded
	if len(m.log) > m.logLimit {
		m.log = m.log[len(m.log)-m.logLimit:]
		m.log[0] = m.startMsg()
	}

	// jump to the bottom for own messages and notifications, keep the
	// reading position for received data
	if msgType != rxMsg {
		m.scrollToBottom()
	} else if !atBottom {
		m.scrollUp(1)
	}
	m.needsUpdate = true
}

func (m *Model) startMsg() string {
	return styles.MsgLogStartRenderStyle.Render(
		fmt.Sprintf("Message log start (limit: %d lines)", m.logLimit))
}

func (m *Model) UpdateVp() {
	if m.Vp.Height <= 0 {
		return
	}
	start := m.firstVisible()
	stop := m.lastVisible()
	m.Vp.SetContent(strings.Join(m.log[start:stop], "\n"))
}

// Lines returns the plain text log content, styling stripped.
func (m Model) Lines() []string {
	out := make([]string, len(m.log))
	for i, l := range m.log {
		out[i] = stripansi.Strip(l)
	}
	return out
}

// GetLen returns the number of log lines.
func (m Model) GetLen() int {
	return len(m.log)
}

func (m *Model) maxScrollIndex() int {
	return len(m.log) - m.Vp.Height
}

func (m *Model) contentFits() bool {
	return len(m.log) <= m.Vp.Height
}

func (m *Model) firstVisible() int {
	if m.contentFits() {
		return 0
	}
	return m.maxScrollIndex() - m.scrollIndex
}

func (m *Model) lastVisible() int {
	if m.contentFits() {
		return len(m.log)
	}
	return len(m.log) - m.scrollIndex
}

func (m *Model) atTop() bool {
	return m.contentFits() || m.scrollIndex == m.maxScrollIndex()
}

func (m *Model) atBottom() bool {
	return m.contentFits() || m.scrollIndex == 0
}

func (m *Model) scrollUp(n int) {
	if m.atTop() {
		return
	}
	if m.maxScrollIndex()-m.scrollIndex > n {
		m.scrollIndex += n
	} else {
		m.scrollIndex = m.maxScrollIndex()
	}
	m.needsUpdate = true
}

func (m *Model) scrollDown(n int) {
	if m.atBottom() {
		return
	}
	if m.scrollIndex-n > 0 {
		m.scrollIndex -= n
	} else {
		m.scrollIndex = 0
	}
	m.needsUpdate = true
}

func (m *Model) scrollToTop() {
	if !m.atTop() {
		m.scrollIndex = m.maxScrollIndex()
		m.needsUpdate = true
	}
}

func (m *Model) scrollToBottom() {
	if !m.atBottom() {
		m.scrollIndex = 0
		m.needsUpdate = true
	}
}

func (m Model) GetScrollPercent() float64 {
	if m.atBottom() {
		return 100
	}
	return 100 - (float64(m.scrollIndex) * 100 / float64(m.maxScrollIndex()))
}

// openEditorCmd dumps the log into a temp file and opens it in $EDITOR.
func openEditorCmd(content []string) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	tmpFile, err := os.CreateTemp("", "teaflash-log-*.txt")
	if err != nil {
		return func() tea.Msg { return EditorFinishedMsg{Err: err} }
	}

	for _, line := range content {
		if _, err = tmpFile.WriteString(stripansi.Strip(line) + "\n"); err != nil {
			return func() tea.Msg { return EditorFinishedMsg{Err: err} }
		}
	}
	if err := tmpFile.Close(); err != nil {
		return func() tea.Msg { return EditorFinishedMsg{Err: err} }
	}

	c := exec.Command(editor, tmpFile.Name())
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return EditorFinishedMsg{Err: err}
		}
		return EditorFinishedMsg{Err: os.Remove(tmpFile.Name())}
	})
}
