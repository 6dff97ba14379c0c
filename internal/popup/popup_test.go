package popup

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teaflash/teaflash/internal/session"
)

func keyPress(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(p interface{ HandleKey(tea.KeyMsg) bool }, text string) {
	for _, r := range text {
		p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func testDevices() []session.Device {
	return []session.Device{
		{Path: "/dev/ttyUSB0", Description: "FT232R", Transport: session.TransportUSB},
		{Path: "/dev/ttyACM0", Description: "Arduino", Transport: session.TransportUSB},
		{Path: "/dev/rfcomm0", Transport: session.TransportBluetooth},
	}
}

func TestFinderSelectsDevice(t *testing.T) {
	f, selected := NewFinder(testDevices())

	f.HandleKey(keyPress(tea.KeyDown))
	f.HandleKey(keyPress(tea.KeyDown))
	f.HandleKey(keyPress(tea.KeyEnter))

	path, ok := <-selected
	if !ok {
		t.Fatal("selection channel closed without a value")
	}
	if path != "/dev/rfcomm0" {
		t.Errorf("selected %q, want /dev/rfcomm0", path)
	}
	if f.Alive() {
		t.Error("finder still alive after selection")
	}
}

func TestFinderCursorStaysInBounds(t *testing.T) {
	f, selected := NewFinder(testDevices())

	f.HandleKey(keyPress(tea.KeyUp)) // already at top
	for i := 0; i < 10; i++ {
		f.HandleKey(keyPress(tea.KeyDown))
	}
	f.HandleKey(keyPress(tea.KeyEnter))

	if path := <-selected; path != "/dev/rfcomm0" {
		t.Errorf("selected %q, want the last device", path)
	}
}

func TestFinderCloseCancelsSelection(t *testing.T) {
	f, selected := NewFinder(testDevices())

	f.Close()

	if _, ok := <-selected; ok {
		t.Error("cancelled finder still delivered a value")
	}
	if f.Alive() {
		t.Error("finder alive after Close")
	}
	f.Close() // double close must be harmless
}

func TestFinderRefusesUnrelatedKeys(t *testing.T) {
	f, _ := NewFinder(testDevices())
	if f.HandleKey(keyPress(tea.KeyEsc)) {
		t.Error("finder claimed esc, it should fall through to dismissal")
	}
}

func TestConfigurerCommitsEditedConfig(t *testing.T) {
	c, committed := NewConfigurer(session.DefaultConfig("/dev/ttyUSB0", session.Baud115200))

	// baud down one step: 115200 -> 57600
	c.HandleKey(keyPress(tea.KeyLeft))
	// stop bits: 1 -> 2
	c.HandleKey(keyPress(tea.KeyDown))
	c.HandleKey(keyPress(tea.KeyDown))
	c.HandleKey(keyPress(tea.KeyDown))
	c.HandleKey(keyPress(tea.KeyRight))
	c.HandleKey(keyPress(tea.KeyEnter))

	cfg, ok := <-committed
	if !ok {
		t.Fatal("commit channel closed without a value")
	}
	if cfg.Baud != session.Baud57600 {
		t.Errorf("Baud = %v, want 57600", cfg.Baud)
	}
	if cfg.StopBits != 2 {
		t.Errorf("StopBits = %d, want 2", cfg.StopBits)
	}
	if cfg.Path != "/dev/ttyUSB0" {
		t.Errorf("Path = %q, want /dev/ttyUSB0", cfg.Path)
	}
}

func TestConfigurerBaudWrapsAround(t *testing.T) {
	c, committed := NewConfigurer(session.DefaultConfig("", session.Baud115200))

	c.HandleKey(keyPress(tea.KeyRight)) // 115200 wraps to 4800
	c.HandleKey(keyPress(tea.KeyEnter))

	cfg := <-committed
	if cfg.Baud != session.Baud4800 {
		t.Errorf("Baud = %v, want wrap to 4800", cfg.Baud)
	}
}

func TestConfigurerTogglesDTR(t *testing.T) {
	c, committed := NewConfigurer(session.DefaultConfig("", session.Baud115200))

	for i := 0; i < 5; i++ {
		c.HandleKey(keyPress(tea.KeyDown))
	}
	c.HandleKey(keyPress(tea.KeyRight))
	c.HandleKey(keyPress(tea.KeyEnter))

	cfg := <-committed
	if cfg.DTROnOpen {
		t.Error("DTROnOpen = true after toggle, want false")
	}
}

func TestConfigurerCloseCancelsCommit(t *testing.T) {
	c, committed := NewConfigurer(session.DefaultConfig("", session.Baud115200))

	c.Close()

	if _, ok := <-committed; ok {
		t.Error("cancelled configurer still delivered a value")
	}
}

func TestCmdInputSplitsArgv(t *testing.T) {
	c, entered := NewCmdInput("")

	typeText(c, "flasher  write  #BIN#")
	c.HandleKey(keyPress(tea.KeyEnter))

	argv, ok := <-entered
	if !ok {
		t.Fatal("command channel closed without a value")
	}
	want := []string{"flasher", "write", "#BIN#"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("argv = %v, want %v", argv, want)
	}
}

func TestCmdInputKeepsDefault(t *testing.T) {
	c, entered := NewCmdInput("make flash BIN=#BIN#")

	c.HandleKey(keyPress(tea.KeyEnter))

	argv := <-entered
	want := []string{"make", "flash", "BIN=#BIN#"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("argv = %v, want %v", argv, want)
	}
}

func TestCmdInputRefusesEmptyCommand(t *testing.T) {
	c, entered := NewCmdInput("")

	c.HandleKey(keyPress(tea.KeyEnter))

	if !c.Alive() {
		t.Fatal("input closed after empty enter")
	}
	select {
	case <-entered:
		t.Fatal("empty command was delivered")
	default:
	}
}

func TestCmdInputLetsEscFallThrough(t *testing.T) {
	c, _ := NewCmdInput("")
	if c.HandleKey(keyPress(tea.KeyEsc)) {
		t.Error("cmd input claimed esc, it should fall through to dismissal")
	}
}

func TestFileViewerSelectsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "build"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "build", "fw.bin"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, selected, err := NewFileViewer(dir)
	if err != nil {
		t.Fatalf("NewFileViewer() = %v", err)
	}

	// directories sort first: cursor starts on build/
	f.HandleKey(keyPress(tea.KeyEnter)) // descend
	f.HandleKey(keyPress(tea.KeyEnter)) // select fw.bin

	path, ok := <-selected
	if !ok {
		t.Fatal("selection channel closed without a value")
	}
	if path != filepath.Join(dir, "build", "fw.bin") {
		t.Errorf("selected %q", path)
	}
}

func TestFileViewerAscendsToParent(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "top.bin"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, selected, err := NewFileViewer(sub)
	if err != nil {
		t.Fatalf("NewFileViewer() = %v", err)
	}

	f.HandleKey(keyPress(tea.KeyLeft))  // up to dir
	f.HandleKey(keyPress(tea.KeyDown))  // past sub/ onto top.bin
	f.HandleKey(keyPress(tea.KeyEnter)) // select

	path := <-selected
	if path != filepath.Join(dir, "top.bin") {
		t.Errorf("selected %q, want top.bin in the parent", path)
	}
}

func TestNotificationDismissesOnAnyKey(t *testing.T) {
	n := NewNotification(0, "hello")
	if !n.Alive() {
		t.Fatal("notification dead before any key")
	}
	if !n.HandleKey(keyPress(tea.KeyEnter)) {
		t.Error("notification refused the dismissing key")
	}
	if n.Alive() {
		t.Error("notification alive after a key")
	}
}

func TestNotificationLetsQuitFallThrough(t *testing.T) {
	n := NewNotification(0, "hello")
	if n.HandleKey(keyPress(tea.KeyCtrlC)) {
		t.Error("notification claimed ctrl+c")
	}
	if !n.Alive() {
		t.Error("notification dismissed by ctrl+c")
	}
}
