package session

import (
	"fmt"
	"regexp"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Transport classifies how a serial port is attached to the host.
type Transport int

const (
	TransportUnknown Transport = iota
	TransportUSB
	TransportBluetooth
	TransportPlatform // PCI / on-board UARTs
)

func (t Transport) String() string {
	switch t {
	case TransportUSB:
		return "usb"
	case TransportBluetooth:
		return "bluetooth"
	case TransportPlatform:
		return "platform"
	default:
		return "unknown"
	}
}

var (
	bluetoothName = regexp.MustCompile(`(?i)rfcomm|bluetooth`)
	platformName  = regexp.MustCompile(`(ttyS|ttyAMA|ttymxc|ttyO|ttySAC|ttyTHS)\d+$|cu\.serial|pci`)
)

// Classify derives the transport type from the enumerator entry. The
// enumerator only flags USB explicitly, the rest is inferred from the
// device name.
func Classify(d *enumerator.PortDetails) Transport {
	switch {
	case d.IsUSB:
		return TransportUSB
	case bluetoothName.MatchString(d.Name):
		return TransportBluetooth
	case platformName.MatchString(d.Name):
		return TransportPlatform
	default:
		return TransportUnknown
	}
}

// Device is one entry offered by the device finder.
type Device struct {
	Path        string
	Description string
	Transport   Transport
}

// Label returns the finder display line.
func (d Device) Label() string {
	if d.Description == "" {
		return d.Path
	}
	return fmt.Sprintf("%s  (%s)", d.Path, d.Description)
}

// Candidates filters the enumerated ports down to the transports a user
// plausibly wants to talk to. On-board and unidentified ports mostly
// clutter the list, so only USB and Bluetooth attached ports survive.
func Candidates(ports []*enumerator.PortDetails) []Device {
	var out []Device
	for _, p := range ports {
		t := Classify(p)
		if t != TransportUSB && t != TransportBluetooth {
			continue
		}
		out = append(out, Device{
			Path:        p.Name,
			Description: describe(p),
			Transport:   t,
		})
	}
	return out
}

func describe(p *enumerator.PortDetails) string {
	var parts []string
	if p.Product != "" {
		parts = append(parts, p.Product)
	}
	if p.IsUSB && p.VID != "" {
		parts = append(parts, p.VID+":"+p.PID)
	}
	if p.SerialNumber != "" {
		parts = append(parts, "sn "+p.SerialNumber)
	}
	return strings.Join(parts, ", ")
}

// Enumerate returns all candidate devices currently visible to the OS.
func Enumerate() ([]Device, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	return Candidates(ports), nil
}

// ListPorts prints a detailed listing of every visible port, regardless
// of transport. Used by the list subcommand.
func ListPorts() error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found!")
		return nil
	}

	for _, port := range ports {
		fmt.Printf("Found port: %s (%s)\n", port.Name, Classify(port))
		if port.IsUSB {
			fmt.Printf("   USB ID     %s:%s\n", port.VID, port.PID)
			fmt.Printf("   USB serial %s\n", port.SerialNumber)
			if port.Product != "" {
				fmt.Printf("   Product    %s\n", port.Product)
			}
		}
	}
	return nil
}
