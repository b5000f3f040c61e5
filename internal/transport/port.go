package transport

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

// SerialPorter defines the minimal interface needed for a serial port.
// This abstraction enables unit testing without real serial hardware.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// TimeoutSerialPorter extends SerialPorter with timeout capabilities.
// go.bug.st/serial ports implement it; a Read that times out returns 0, nil.
type TimeoutSerialPorter interface {
	SerialPorter
	SetReadTimeout(timeout time.Duration) error
}

// SerialPortOpener opens a serial port at path. OpenSerial is the production
// implementation; tests substitute their own.
type SerialPortOpener func(path string, opts PortOptions) (SerialPorter, error)

// Default baud rates of the two UARTs exposed by the sensor.
const (
	DefaultCommandBaudRate = 115200
	DefaultDataBaudRate    = 921600
)

// PortOptions describes the serial connection parameters used when opening a
// real serial port.
type PortOptions struct {
	BaudRate int    `json:"baud_rate" yaml:"baud_rate"`
	DataBits int    `json:"data_bits" yaml:"data_bits"`
	StopBits int    `json:"stop_bits" yaml:"stop_bits"`
	Parity   string `json:"parity" yaml:"parity"`
}

// Normalize validates the options and applies defaults for any unset values.
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultCommandBaudRate
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	parity := strings.TrimSpace(strings.ToUpper(opts.Parity))
	switch parity {
	case "", "N", "NONE":
		parity = "N"
	case "E", "EVEN":
		parity = "E"
	case "O", "ODD":
		parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}

	opts.Parity = parity
	return opts, nil
}

// SerialMode converts the port options into the serial.Mode structure required
// by go.bug.st/serial.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}

	return mode, nil
}

// OpenSerial opens a real serial port at path.
func OpenSerial(path string, opts PortOptions) (SerialPorter, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	return port, nil
}
