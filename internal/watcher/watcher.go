// Package watcher implements the auto-flash actor: it observes one file
// on disk and, whenever the file is written or recreated, runs an
// external flash command while the serial link is quiesced.
//
// The protocol with the application is a strict two-channel handshake:
// the watcher sends WatcherDisconnectRequestMsg and blocks on its reply
// channel. A Disconnected reply means the link is down and the command
// may run; NoDevice means nothing was connected and the cycle is
// skipped. After a command run the watcher sends
// WatcherReconnectRequestMsg so the application restores the session
// from the remembered configuration.
package watcher

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/teaflash/teaflash/events"
)

// BinToken is replaced by the watched file path in the command argv.
const BinToken = "#BIN#"

// Reply is the application's answer to a disconnect request.
type Reply int

const (
	// Disconnected: the serial session is down, flashing may proceed.
	Disconnected Reply = iota
	// NoDevice: nothing was connected, the cycle is skipped.
	NoDevice
)

// Watcher is the handle the application keeps for an armed watch.
type Watcher struct {
	path    string
	argv    []string
	app     events.Messenger
	fsw     *fsnotify.Watcher
	replies chan Reply
	done    chan struct{}
}

// ExpandArgv substitutes every BinToken occurrence in the argv with the
// given file path. Arguments without the token pass through verbatim.
func ExpandArgv(argv []string, bin string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = strings.ReplaceAll(a, BinToken, bin)
	}
	return out
}

// Start arms a watch on path. The fsnotify subscription is placed on
// the parent directory so that delete-and-recreate editors and build
// systems are still observed. If the subscription cannot be set up, no
// watcher is started.
func Start(path string, argv []string, app events.Messenger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		argv:    argv,
		app:     app,
		fsw:     fsw,
		replies: make(chan Reply, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Reply answers the pending disconnect request. It never blocks; the
// reply is dropped if the watcher is not waiting and its slot is full.
func (w *Watcher) Reply(r Reply) {
	select {
	case w.replies <- r:
	default:
	}
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Stop ends the filesystem subscription and the watcher goroutine. A
// cycle blocked on the handshake is released.
func (w *Watcher) Stop() {
	close(w.done)
	w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.qualifies(ev) {
				continue
			}
			if !w.cycle() {
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.app.Notify(events.Error, "file watch error: %v", err)

		case <-w.done:
			return
		}
	}
}

// qualifies reports whether the event is a content change of the
// watched file. Metadata-only changes are ignored.
func (w *Watcher) qualifies(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != filepath.Base(w.path) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// cycle runs one disconnect / flash / reconnect round trip. It returns
// false when the watcher was stopped mid-handshake. Events arriving
// while a cycle runs queue up behind it; they are neither coalesced nor
// dropped.
func (w *Watcher) cycle() bool {
	// A disconnect the application reported on its own (manual, cable
	// loss) leaves a stale reply in the slot. Discard it so the cycle
	// only proceeds on an answer to this request.
	select {
	case <-w.replies:
	default:
	}

	w.app.Send(events.WatcherDisconnectRequestMsg{})

	var reply Reply
	select {
	case reply = <-w.replies:
	case <-w.done:
		return false
	}

	if reply == NoDevice {
		// the application already logged the skip
		return true
	}

	w.flash()

	w.app.Send(events.WatcherReconnectRequestMsg{})
	return true
}

// flash executes the external command synchronously and reports its
// exit status and output verbatim.
func (w *Watcher) flash() {
	argv := ExpandArgv(w.argv, w.path)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	switch {
	case err == nil:
		w.app.Notify(events.Info, "flash command succeeded: %s", strings.Join(argv, " "))
	case cmd.ProcessState != nil:
		w.app.Notify(events.Error, "flash command exited %d: %s",
			cmd.ProcessState.ExitCode(), strings.Join(argv, " "))
	default:
		// spawn failure; keep watching, the next event gets a fresh try
		w.app.Notify(events.Error, "could not run flash command: %v", err)
	}

	for _, line := range outputLines(stdout.String()) {
		w.app.Notify(events.Info, "%s", line)
	}
	for _, line := range outputLines(stderr.String()) {
		w.app.Notify(events.Error, "%s", line)
	}
}

func outputLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
