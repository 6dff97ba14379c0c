package session

import (
	"fmt"

	"go.bug.st/serial"
)

// Baud is one of the six supported serial baud rates.
type Baud int

const (
	Baud4800   Baud = 4800
	Baud9600   Baud = 9600
	Baud19200  Baud = 19200
	Baud38400  Baud = 38400
	Baud57600  Baud = 57600
	Baud115200 Baud = 115200
)

// Bauds lists the supported rates in ascending order.
var Bauds = []Baud{Baud4800, Baud9600, Baud19200, Baud38400, Baud57600, Baud115200}

// ParseBaud accepts a supported rate, either in full or in the usual
// shorthand (e.g. 1152 for 115200).
func ParseBaud(n int) (Baud, error) {
	switch n {
	case 4800, 48:
		return Baud4800, nil
	case 9600, 96:
		return Baud9600, nil
	case 19200, 192:
		return Baud19200, nil
	case 38400, 384:
		return Baud38400, nil
	case 57600, 576:
		return Baud57600, nil
	case 115200, 1152:
		return Baud115200, nil
	}
	return 0, fmt.Errorf("not a valid baud rate: %d", n)
}

// Parity mode of the serial frame.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "none"
	}
}

// FlowControl mode. go.bug.st/serial exposes no flow control knob, so
// the selection is kept for display and for the remembered
// configuration only.
type FlowControl int

const (
	FlowNone FlowControl = iota
	FlowSoftware
	FlowHardware
)

func (f FlowControl) String() string {
	switch f {
	case FlowSoftware:
		return "software"
	case FlowHardware:
		return "hardware"
	default:
		return "none"
	}
}

// DeviceConfig is the full set of parameters needed to open a serial
// port. It is immutable once a session has been opened from it and is
// remembered by the application so the port can be reopened identically
// after a disconnect.
type DeviceConfig struct {
	Path      string
	Baud      Baud
	DataBits  int // 5-8
	Parity    Parity
	StopBits  int // 1 or 2
	Flow      FlowControl
	DTROnOpen bool
}

// DefaultConfig returns the configuration the device configurer is
// pre-filled with: 115200 8-N-1, no flow control, DTR asserted on open.
func DefaultConfig(path string, baud Baud) DeviceConfig {
	if baud == 0 {
		baud = Baud115200
	}
	return DeviceConfig{
		Path:      path,
		Baud:      baud,
		DataBits:  8,
		Parity:    ParityNone,
		StopBits:  1,
		Flow:      FlowNone,
		DTROnOpen: true,
	}
}

// Mode translates the configuration into a serial.Mode.
func (c DeviceConfig) Mode() *serial.Mode {
	mode := &serial.Mode{
		BaudRate: int(c.Baud),
		DataBits: c.DataBits,
		InitialStatusBits: &serial.ModemOutputBits{
			DTR: c.DTROnOpen,
			RTS: true,
		},
	}

	switch c.Parity {
	case ParityOdd:
		mode.Parity = serial.OddParity
	case ParityEven:
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}

	if c.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	} else {
		mode.StopBits = serial.OneStopBit
	}

	return mode
}

// Open opens the configured port.
func (c DeviceConfig) Open() (Port, error) {
	return serial.Open(c.Path, c.Mode())
}

// Label is a short human readable summary, e.g. "115200 8N1".
func (c DeviceConfig) Label() string {
	parity := "N"
	switch c.Parity {
	case ParityOdd:
		parity = "O"
	case ParityEven:
		parity = "E"
	}
	return fmt.Sprintf("%d %d%s%d", c.Baud, c.DataBits, parity, c.StopBits)
}
