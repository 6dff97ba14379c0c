package session

import (
	"testing"

	"go.bug.st/serial/enumerator"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		port enumerator.PortDetails
		want Transport
	}{
		{
			name: "usb flag wins",
			port: enumerator.PortDetails{Name: "/dev/ttyUSB0", IsUSB: true},
			want: TransportUSB,
		},
		{
			name: "rfcomm is bluetooth",
			port: enumerator.PortDetails{Name: "/dev/rfcomm0"},
			want: TransportBluetooth,
		},
		{
			name: "macos bluetooth device",
			port: enumerator.PortDetails{Name: "/dev/cu.Bluetooth-Incoming-Port"},
			want: TransportBluetooth,
		},
		{
			name: "onboard uart",
			port: enumerator.PortDetails{Name: "/dev/ttyS0"},
			want: TransportPlatform,
		},
		{
			name: "raspberry pi uart",
			port: enumerator.PortDetails{Name: "/dev/ttyAMA0"},
			want: TransportPlatform,
		},
		{
			name: "unidentifiable",
			port: enumerator.PortDetails{Name: "/dev/something"},
			want: TransportUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(&tt.port); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.port.Name, got, tt.want)
			}
		})
	}
}

func TestCandidatesKeepsUSBAndBluetoothOnly(t *testing.T) {
	ports := []*enumerator.PortDetails{
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001", Product: "FT232R"},
		{Name: "/dev/ttyS0"},
		{Name: "/dev/rfcomm0"},
		{Name: "/dev/something"},
	}

	devices := Candidates(ports)

	if len(devices) != 2 {
		t.Fatalf("Candidates returned %d devices, want 2", len(devices))
	}
	if devices[0].Path != "/dev/ttyUSB0" || devices[0].Transport != TransportUSB {
		t.Errorf("devices[0] = %+v", devices[0])
	}
	if devices[1].Path != "/dev/rfcomm0" || devices[1].Transport != TransportBluetooth {
		t.Errorf("devices[1] = %+v", devices[1])
	}
}

func TestDeviceDescription(t *testing.T) {
	ports := []*enumerator.PortDetails{
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043", Product: "Arduino Uno", SerialNumber: "A1B2"},
	}

	devices := Candidates(ports)
	if len(devices) != 1 {
		t.Fatalf("Candidates returned %d devices, want 1", len(devices))
	}

	want := "Arduino Uno, 2341:0043, sn A1B2"
	if devices[0].Description != want {
		t.Errorf("Description = %q, want %q", devices[0].Description, want)
	}
}

func TestDeviceLabel(t *testing.T) {
	bare := Device{Path: "/dev/rfcomm0"}
	if got := bare.Label(); got != "/dev/rfcomm0" {
		t.Errorf("Label() = %q", got)
	}

	full := Device{Path: "/dev/ttyUSB0", Description: "FT232R"}
	if got := full.Label(); got != "/dev/ttyUSB0  (FT232R)" {
		t.Errorf("Label() = %q", got)
	}
}
