package watcher

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teaflash/teaflash/events"
)

func TestExpandArgv(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		bin  string
		want []string
	}{
		{
			name: "token as own argument",
			argv: []string{"flasher", "write", BinToken},
			bin:  "firmware.bin",
			want: []string{"flasher", "write", "firmware.bin"},
		},
		{
			name: "token embedded",
			argv: []string{"esptool", "--flash=" + BinToken},
			bin:  "/tmp/app.bin",
			want: []string{"esptool", "--flash=/tmp/app.bin"},
		},
		{
			name: "token repeated",
			argv: []string{"cp", BinToken, BinToken + ".bak"},
			bin:  "fw.bin",
			want: []string{"cp", "fw.bin", "fw.bin.bak"},
		},
		{
			name: "no token passes through",
			argv: []string{"make", "flash"},
			bin:  "fw.bin",
			want: []string{"make", "flash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandArgv(tt.argv, tt.bin)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandArgv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func waitForMsg[T tea.Msg](t *testing.T, app events.Messenger) T {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-app.Inbox():
			if m, ok := msg.(T); ok {
				return m
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func assertNoMsg[T tea.Msg](t *testing.T, app events.Messenger, wait time.Duration) {
	t.Helper()
	deadline := time.After(wait)
	for {
		select {
		case msg := <-app.Inbox():
			if _, ok := msg.(T); ok {
				var zero T
				t.Fatalf("got unexpected %T", zero)
			}
		case <-deadline:
			return
		}
	}
}

func TestWatcherRunsFullCycle(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "firmware.bin")
	marker := filepath.Join(dir, "flashed")
	if err := os.WriteFile(watched, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := events.NewMessenger()
	w, err := Start(watched, []string{"touch", marker}, app)
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(watched, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForMsg[events.WatcherDisconnectRequestMsg](t, app)

	if _, err := os.Stat(marker); err == nil {
		t.Fatal("flash command ran before the disconnect was acknowledged")
	}

	w.Reply(Disconnected)

	waitForMsg[events.WatcherReconnectRequestMsg](t, app)

	if _, err := os.Stat(marker); err != nil {
		t.Errorf("flash command did not run: %v", err)
	}
}

func TestWatcherNoDeviceSkipsFlashAndReconnect(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "firmware.bin")
	marker := filepath.Join(dir, "flashed")
	if err := os.WriteFile(watched, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := events.NewMessenger()
	w, err := Start(watched, []string{"touch", marker}, app)
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(watched, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForMsg[events.WatcherDisconnectRequestMsg](t, app)
	w.Reply(NoDevice)

	assertNoMsg[events.WatcherReconnectRequestMsg](t, app, 300*time.Millisecond)

	if _, err := os.Stat(marker); err == nil {
		t.Error("flash command ran despite NoDevice reply")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "firmware.bin")
	if err := os.WriteFile(watched, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := events.NewMessenger()
	w, err := Start(watched, []string{"true"}, app)
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	assertNoMsg[events.WatcherDisconnectRequestMsg](t, app, 300*time.Millisecond)
}

func TestWatcherSurvivesDeleteAndRecreate(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "firmware.bin")
	if err := os.WriteFile(watched, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := events.NewMessenger()
	w, err := Start(watched, []string{"true"}, app)
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer w.Stop()

	if err := os.Remove(watched); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForMsg[events.WatcherDisconnectRequestMsg](t, app)
	w.Reply(NoDevice)
}

func TestWatcherStopReleasesPendingHandshake(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "firmware.bin")
	marker := filepath.Join(dir, "flashed")
	if err := os.WriteFile(watched, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := events.NewMessenger()
	w, err := Start(watched, []string{"touch", marker}, app)
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}

	if err := os.WriteFile(watched, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForMsg[events.WatcherDisconnectRequestMsg](t, app)

	// never answered; Stop must release the blocked cycle
	w.Stop()

	assertNoMsg[events.WatcherReconnectRequestMsg](t, app, 300*time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Error("flash command ran after Stop")
	}
}

func TestWatcherDiscardsStaleReply(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "firmware.bin")
	marker := filepath.Join(dir, "flashed")
	if err := os.WriteFile(watched, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := events.NewMessenger()
	w, err := Start(watched, []string{"touch", marker}, app)
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer w.Stop()

	// a manual disconnect while armed leaves a reply nobody asked for
	w.Reply(Disconnected)

	if err := os.WriteFile(watched, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForMsg[events.WatcherDisconnectRequestMsg](t, app)

	// the cycle must wait for an answer to its own request
	time.Sleep(200 * time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Fatal("flash command ran on the stale reply")
	}

	w.Reply(Disconnected)
	waitForMsg[events.WatcherReconnectRequestMsg](t, app)

	if _, err := os.Stat(marker); err != nil {
		t.Errorf("flash command did not run after the fresh reply: %v", err)
	}
}

func TestWatcherReportsFlashFailure(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "firmware.bin")
	if err := os.WriteFile(watched, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := events.NewMessenger()
	w, err := Start(watched, []string{"false"}, app)
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(watched, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForMsg[events.WatcherDisconnectRequestMsg](t, app)
	w.Reply(Disconnected)

	var sawFailure bool
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-app.Inbox():
			if n, ok := msg.(events.NotifyMsg); ok && n.Severity == events.Error {
				sawFailure = true
			}
			if _, ok := msg.(events.WatcherReconnectRequestMsg); ok {
				if !sawFailure {
					t.Error("no error notification before the reconnect request")
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for the cycle to finish")
		}
	}
}
