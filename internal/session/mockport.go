package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"go.bug.st/serial"
)

// mockPort simulates a serial device for development without hardware.
// It periodically emits a counter line and accepts all writes and line
// control changes.
type mockPort struct {
	rxChan chan []byte
	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	dtr bool
	rts bool
}

// OpenMockPort creates and starts a new mock serial port.
func OpenMockPort() Port {
	ctx, cancel := context.WithCancel(context.Background())

	m := &mockPort{
		rxChan: make(chan []byte),
		ctx:    ctx,
		cancel: cancel,
	}

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		count := 0
		for {
			select {
			case <-ticker.C:
				msg := fmt.Appendf(nil, "Hello from mock port! Count: %d\r\n", count)
				select {
				case m.rxChan <- msg:
					count++
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return m
}

// Read blocks until a message is available or the port is closed.
func (m *mockPort) Read(p []byte) (n int, err error) {
	select {
	case data := <-m.rxChan:
		n = copy(p, data)
		return n, nil
	case <-m.ctx.Done():
		return 0, io.EOF
	}
}

// Write simulates sending data, the bytes are only logged.
func (m *mockPort) Write(p []byte) (n int, err error) {
	log.Printf("mock port write: %q", string(p))
	return len(p), nil
}

func (m *mockPort) SetDTR(dtr bool) error {
	m.mu.Lock()
	m.dtr = dtr
	m.mu.Unlock()
	return nil
}

func (m *mockPort) SetRTS(rts bool) error {
	m.mu.Lock()
	m.rts = rts
	m.mu.Unlock()
	return nil
}

// GetModemStatusBits mirrors RTS back as CTS, like a looped-back cable.
func (m *mockPort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &serial.ModemStatusBits{CTS: m.rts, DSR: true}, nil
}

// Close stops the mock port's internal goroutine.
func (m *mockPort) Close() error {
	m.cancel()
	return nil
}
