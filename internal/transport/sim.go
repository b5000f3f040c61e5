package transport

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultVersionResponse is what a simulated device prints for "version".
const DefaultVersionResponse = "Platform                : xWR18xx\nmmWave SDK Version      : 03.05.00.04\nDone"

// SimDevice is an in-process stand-in for a sensor. Every connection shares
// the device's command log and response policy. The zero value is not usable;
// call NewSimDevice.
type SimDevice struct {
	mu sync.Mutex

	// Respond returns the device reply for a command. An empty reply means
	// the device stays silent and ReadResponse times out. Defaults to
	// DefaultRespond.
	Respond func(command string) string

	// ConnectError is returned by Connect if set.
	ConnectError error

	sent         []string
	readFailures int
	packetReads  int
	connects     int
	closes       int
}

// NewSimDevice returns a device that acknowledges every command.
func NewSimDevice() *SimDevice {
	return &SimDevice{Respond: DefaultRespond}
}

// DefaultRespond acknowledges every command with "Done".
func DefaultRespond(command string) string {
	if command == "version" {
		return DefaultVersionResponse
	}
	return SuccessMarker
}

// RejectVerb returns a responder that answers commands starting with verb
// with a CLI error and acknowledges everything else.
func RejectVerb(verb string) func(string) string {
	return func(command string) string {
		if fields := strings.Fields(command); len(fields) > 0 && fields[0] == verb {
			return "Error -1"
		}
		return DefaultRespond(command)
	}
}

// Connect opens a new Link to the simulated device.
func (d *SimDevice) Connect() (*Link, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ConnectError != nil {
		return nil, d.ConnectError
	}
	d.connects++
	return &Link{
		Bus:     NewZeroBus(0, 1000000),
		Command: &simCommandChannel{dev: d},
		Data:    &simDataChannel{dev: d},
	}, nil
}

// Sent returns a copy of every command received, in order.
func (d *SimDevice) Sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.sent))
	copy(out, d.sent)
	return out
}

// FailReads makes the next n packet reads time out.
func (d *SimDevice) FailReads(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readFailures = n
}

// Connects reports how many links were opened.
func (d *SimDevice) Connects() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connects
}

// Closes reports how many channels were closed.
func (d *SimDevice) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// PacketReads reports how many packet reads were attempted.
func (d *SimDevice) PacketReads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.packetReads
}

type simCommandChannel struct {
	dev     *SimDevice
	replies []string
	closed  bool
}

func (c *simCommandChannel) SendCommand(command string) error {
	if c.closed {
		return ErrNotOpen
	}
	command = strings.TrimSpace(command)
	c.dev.mu.Lock()
	c.dev.sent = append(c.dev.sent, command)
	respond := c.dev.Respond
	c.dev.mu.Unlock()

	if respond == nil {
		respond = DefaultRespond
	}
	c.replies = append(c.replies, respond(command))
	return nil
}

func (c *simCommandChannel) ReadResponse(time.Duration) (string, error) {
	if c.closed {
		return "", ErrNotOpen
	}
	if len(c.replies) == 0 {
		return "", ErrTimeout
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	if reply == "" {
		return "", ErrTimeout
	}
	return reply, nil
}

func (c *simCommandChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.dev.mu.Lock()
	c.dev.closes++
	c.dev.mu.Unlock()
	return nil
}

type simDataChannel struct {
	dev    *SimDevice
	closed bool
}

// ReadPacket returns a byte ramp (i % 256) of the requested length.
func (c *simDataChannel) ReadPacket(expectedBytes int, _ time.Duration) ([]byte, error) {
	if c.closed {
		return nil, ErrNotOpen
	}
	if expectedBytes <= 0 {
		return nil, fmt.Errorf("invalid packet size %d", expectedBytes)
	}
	c.dev.mu.Lock()
	c.dev.packetReads++
	fail := c.dev.readFailures > 0
	if fail {
		c.dev.readFailures--
	}
	c.dev.mu.Unlock()
	if fail {
		return nil, fmt.Errorf("%w: no data on port", ErrTimeout)
	}

	packet := make([]byte, expectedBytes)
	for i := range packet {
		packet[i] = byte(i % 256)
	}
	return packet, nil
}

func (c *simDataChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.dev.mu.Lock()
	c.dev.closes++
	c.dev.mu.Unlock()
	return nil
}
