package session

import (
	"io"

	"go.bug.st/serial"

	"github.com/teaflash/teaflash/events"
)

// Port is the device handle owned by a session. serial.Port implements
// it; the mock port and test fakes implement it as well.
type Port interface {
	io.ReadWriteCloser
	SetDTR(dtr bool) error
	SetRTS(rts bool) error
	GetModemStatusBits() (*serial.ModemStatusBits, error)
}

// Command is the input side of the session protocol. All port state is
// mutated by the session goroutine only, serialized through the command
// channel.
type Command interface{ isCommand() }

type (
	// Write sends bytes to the device.
	Write []byte
	// SetDTR drives the DTR line.
	SetDTR bool
	// SetRTS drives the RTS line.
	SetRTS bool
	// ReadStatus requests a LineStatusMsg readback.
	ReadStatus struct{}
	// Disconnect ends the session without further I/O.
	Disconnect struct{}
)

func (Write) isCommand()      {}
func (SetDTR) isCommand()     {}
func (SetRTS) isCommand()     {}
func (ReadStatus) isCommand() {}
func (Disconnect) isCommand() {}

// ErrGone is returned by Conn.Send once the session has ended.
type goneError struct{}

func (goneError) Error() string { return "serial session has ended" }

// ErrGone reports that the session goroutine is no longer receiving
// commands. Receiving it is equivalent to having observed SerialGoneMsg.
var ErrGone error = goneError{}

// Conn is the command handle of a running session. It is safe for use
// from multiple goroutines.
type Conn struct {
	cmds chan<- Command
	done <-chan struct{}
}

// Send delivers a command to the session. After the session has emitted
// SerialGoneMsg, Send fails with ErrGone instead of blocking.
func (c *Conn) Send(cmd Command) error {
	select {
	case <-c.done:
		return ErrGone
	default:
	}
	select {
	case c.cmds <- cmd:
		return nil
	case <-c.done:
		return ErrGone
	}
}

// Done is closed when the session goroutine has terminated.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Start takes ownership of an open port and runs the session goroutine.
// The session emits SerialConnectedMsg immediately, SerialRxMsg for
// received data and exactly one SerialGoneMsg when it ends. dtr is the
// state the DTR line was opened with; it is tracked for status
// readback since the modem status bits only cover input lines.
func Start(port Port, name string, dtr bool, app events.Messenger) *Conn {
	cmds := make(chan Command, 32)
	done := make(chan struct{})
	go run(port, name, dtr, app, cmds, done)
	return &Conn{cmds: cmds, done: done}
}

func run(port Port, name string, dtr bool, app events.Messenger, cmds <-chan Command, done chan struct{}) {
	defer close(done)
	defer port.Close()

	app.Send(events.SerialConnectedMsg{Name: name})

	stop := make(chan struct{})
	defer close(stop)
	reads := make(chan []byte)
	go reader(port, reads, stop)

	// Race the next read chunk against the next command, so neither
	// direction can starve the other.
	for {
		select {
		case data, ok := <-reads:
			if !ok {
				// zero-length read or read error, the port is gone
				app.Send(events.SerialGoneMsg{})
				return
			}
			app.Send(events.SerialRxMsg(data))

		case cmd, ok := <-cmds:
			if !ok {
				// all senders dropped, same as Disconnect
				app.Send(events.SerialGoneMsg{})
				return
			}
			switch cmd := cmd.(type) {
			case Write:
				if err := writeAll(port, cmd); err != nil {
					app.Send(events.ErrMsg{Err: err})
					app.Send(events.SerialGoneMsg{})
					return
				}

			case SetDTR:
				if err := port.SetDTR(bool(cmd)); err != nil {
					app.Send(events.ErrMsg{Err: err})
					app.Send(events.SerialGoneMsg{})
					return
				}
				dtr = bool(cmd)
				sendStatus(port, dtr, app)

			case SetRTS:
				if err := port.SetRTS(bool(cmd)); err != nil {
					app.Send(events.ErrMsg{Err: err})
					app.Send(events.SerialGoneMsg{})
					return
				}
				sendStatus(port, dtr, app)

			case ReadStatus:
				sendStatus(port, dtr, app)

			case Disconnect:
				app.Send(events.SerialGoneMsg{})
				return
			}
		}
	}
}

// reader pumps port reads into the session loop. The channel is closed
// on the first error or zero-length read. Closing the port unblocks a
// pending Read.
func reader(port Port, out chan<- []byte, stop <-chan struct{}) {
	defer close(out)
	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if err != nil || n == 0 {
			return
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		select {
		case out <- data:
		case <-stop:
			return
		}
	}
}

func writeAll(port Port, data []byte) error {
	for len(data) > 0 {
		n, err := port.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// sendStatus reads the input control lines back and reports them
// together with the tracked DTR state. A readback failure leaves the
// status unknown and is not fatal.
func sendStatus(port Port, dtr bool, app events.Messenger) {
	bits, err := port.GetModemStatusBits()
	if err != nil {
		app.Notify(events.Warning, "line status unavailable: %v", err)
		return
	}
	app.Send(events.LineStatusMsg{DTR: dtr, CTS: bits.CTS})
}
