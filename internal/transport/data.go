package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/mmwave/internal/timeutil"
)

// DataChannel delivers fixed-size packets from the device's data port.
type DataChannel interface {
	// ReadPacket returns exactly expectedBytes bytes, or an error if they did
	// not arrive within the timeout. There is no partial-read protocol.
	ReadPacket(expectedBytes int, timeout time.Duration) ([]byte, error)
	Close() error
}

// UARTDataChannel is a DataChannel over the device's high-speed data UART.
type UARTDataChannel struct {
	mu     sync.Mutex
	port   SerialPorter
	clock  timeutil.Clock
	closed bool
}

// NewUARTDataChannel wraps an open serial port. A nil clock uses the wall
// clock.
func NewUARTDataChannel(port SerialPorter, clock timeutil.Clock) *UARTDataChannel {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &UARTDataChannel{port: port, clock: clock}
}

func (d *UARTDataChannel) ReadPacket(expectedBytes int, timeout time.Duration) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrNotOpen
	}
	if expectedBytes <= 0 {
		return nil, fmt.Errorf("invalid packet size %d", expectedBytes)
	}

	tp, canTimeout := d.port.(TimeoutSerialPorter)
	if canTimeout {
		if err := tp.SetReadTimeout(min(timeout, pollInterval)); err != nil {
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}

	deadline := d.clock.Now().Add(timeout)
	packet := make([]byte, expectedBytes)
	got := 0
	for got < expectedBytes {
		if !d.clock.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: read %d of %d bytes", ErrTimeout, got, expectedBytes)
		}
		n, err := d.port.Read(packet[got:])
		if err != nil {
			return nil, fmt.Errorf("failed to read packet: %w", err)
		}
		if n == 0 && !canTimeout {
			d.clock.Sleep(pollInterval)
		}
		got += n
	}
	return packet, nil
}

// Close closes the underlying port. Closing twice is a no-op.
func (d *UARTDataChannel) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.port.Close()
}
