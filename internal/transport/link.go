package transport

import (
	"errors"
	"fmt"

	"github.com/banshee-data/mmwave/internal/timeutil"
)

// Link bundles the transports of one device session. It is acquired on
// power-on and released as a unit.
type Link struct {
	Bus     Bus
	Command CommandChannel
	Data    DataChannel
}

// Close closes every transport, reporting all failures.
func (l *Link) Close() error {
	var errs []error
	if l.Command != nil {
		if err := l.Command.Close(); err != nil {
			errs = append(errs, fmt.Errorf("command channel: %w", err))
		}
	}
	if l.Data != nil {
		if err := l.Data.Close(); err != nil {
			errs = append(errs, fmt.Errorf("data channel: %w", err))
		}
	}
	if l.Bus != nil {
		if err := l.Bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("spi bus: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Connector opens a fresh Link to a device.
type Connector interface {
	Connect() (*Link, error)
}

// SerialConnector opens the two UARTs of a real sensor.
type SerialConnector struct {
	CommandPath    string
	CommandOptions PortOptions
	DataPath       string
	DataOptions    PortOptions

	// SPIMode and SPISpeedHz describe the SPI link. No SPI driver is wired so
	// the bus is a ZeroBus.
	SPIMode    int
	SPISpeedHz int

	// Open defaults to OpenSerial.
	Open SerialPortOpener
	// Clock defaults to the wall clock.
	Clock timeutil.Clock
}

// Connect opens both ports. If the second port fails the first is closed
// again so nothing leaks.
func (s *SerialConnector) Connect() (*Link, error) {
	open := s.Open
	if open == nil {
		open = OpenSerial
	}
	dataOpts := s.DataOptions
	if dataOpts.BaudRate <= 0 {
		dataOpts.BaudRate = DefaultDataBaudRate
	}

	cmdPort, err := open(s.CommandPath, s.CommandOptions)
	if err != nil {
		return nil, fmt.Errorf("command port: %w", err)
	}
	dataPort, err := open(s.DataPath, dataOpts)
	if err != nil {
		cmdPort.Close()
		return nil, fmt.Errorf("data port: %w", err)
	}

	speed := s.SPISpeedHz
	if speed <= 0 {
		speed = 1000000
	}
	return &Link{
		Bus:     NewZeroBus(s.SPIMode, speed),
		Command: NewUARTCommandChannel(cmdPort, s.Clock),
		Data:    NewUARTDataChannel(dataPort, s.Clock),
	}, nil
}
