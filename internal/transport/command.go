// Package transport holds the byte-level links to the radar: the command
// UART, the data UART and the SPI bus. Every call blocks the caller up to its
// timeout; there is no background reader.
package transport

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/banshee-data/mmwave/internal/timeutil"
)

// SuccessMarker is the literal the device prints after accepting a command.
const SuccessMarker = "Done"

var (
	ErrWriteFailed = errors.New("failed to write to serial port")
	ErrTimeout     = errors.New("timed out waiting for device")
	ErrNotOpen     = errors.New("transport not open")
)

// pollInterval bounds a single blocking Read so deadlines are honoured.
const pollInterval = 50 * time.Millisecond

// CommandChannel sends CLI commands to the device and reads back the text it
// prints in reply.
type CommandChannel interface {
	SendCommand(command string) error
	// ReadResponse blocks until the device prints a terminal line or the
	// timeout elapses.
	ReadResponse(timeout time.Duration) (string, error)
	Close() error
}

// IsSuccess reports whether a response acknowledges the command.
func IsSuccess(response string) bool {
	return strings.Contains(response, SuccessMarker)
}

// isTerminal reports whether a response line ends the device's reply.
func isTerminal(line string) bool {
	return strings.Contains(line, SuccessMarker) ||
		strings.HasPrefix(line, "Error") ||
		strings.Contains(line, "not recognized")
}

// UARTCommandChannel is a CommandChannel over the device's configuration UART.
type UARTCommandChannel struct {
	mu      sync.Mutex
	port    SerialPorter
	clock   timeutil.Clock
	pending []byte
	closed  bool
}

// NewUARTCommandChannel wraps an open serial port. A nil clock uses the wall
// clock.
func NewUARTCommandChannel(port SerialPorter, clock timeutil.Clock) *UARTCommandChannel {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &UARTCommandChannel{port: port, clock: clock}
}

// SendCommand writes a newline-terminated command and drops any stale input.
func (c *UARTCommandChannel) SendCommand(command string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrNotOpen
	}
	if !strings.HasSuffix(command, "\n") {
		command += "\n"
	}
	c.pending = c.pending[:0]
	n, err := c.port.Write([]byte(command))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if n != len(command) {
		return ErrWriteFailed
	}
	return nil
}

// ReadResponse collects reply lines until one of them is terminal. Blank lines
// and the CLI prompt are skipped. On timeout the lines read so far are
// returned alongside ErrTimeout.
func (c *UARTCommandChannel) ReadResponse(timeout time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrNotOpen
	}

	tp, canTimeout := c.port.(TimeoutSerialPorter)
	if canTimeout {
		if err := tp.SetReadTimeout(min(timeout, pollInterval)); err != nil {
			return "", fmt.Errorf("failed to set read timeout: %w", err)
		}
	}

	deadline := c.clock.Now().Add(timeout)
	var lines []string
	buf := make([]byte, 256)
	for {
		for {
			line, ok := c.nextLine()
			if !ok {
				break
			}
			if line == "" || strings.HasSuffix(line, ":/>") {
				continue
			}
			lines = append(lines, line)
			if isTerminal(line) {
				return strings.Join(lines, "\n"), nil
			}
		}

		if !c.clock.Now().Before(deadline) {
			return strings.Join(lines, "\n"), ErrTimeout
		}

		n, err := c.port.Read(buf)
		if err != nil {
			return strings.Join(lines, "\n"), fmt.Errorf("failed to read response: %w", err)
		}
		if n == 0 {
			if !canTimeout {
				c.clock.Sleep(pollInterval)
			}
			continue
		}
		c.pending = append(c.pending, buf[:n]...)
	}
}

// nextLine pops one complete line from the pending buffer.
func (c *UARTCommandChannel) nextLine() (string, bool) {
	i := strings.IndexByte(string(c.pending), '\n')
	if i < 0 {
		return "", false
	}
	line := strings.TrimSpace(string(c.pending[:i]))
	c.pending = c.pending[i+1:]
	return line, true
}

// Close closes the underlying port. Closing twice is a no-op.
func (c *UARTCommandChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.port.Close()
}
