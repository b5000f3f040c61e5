package transport

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// TestableSerialPort implements TimeoutSerialPorter with scripted behaviour
// for tests. Reads on an empty buffer return 0, nil like a timed-out UART.
type TestableSerialPort struct {
	mu sync.Mutex

	// ReadBuffer holds data to be returned by Read calls.
	ReadBuffer *bytes.Buffer
	// WriteBuffer captures data written to the port.
	WriteBuffer *bytes.Buffer

	// Reply, if set, is called with every write and its result is queued
	// for reading, so the port behaves like a device answering commands.
	Reply func(written []byte) []byte

	// OnEmptyRead is called when a Read finds no data. Tests use it to
	// advance a mock clock.
	OnEmptyRead func()

	ReadError  error
	WriteError error
	CloseError error

	Closed      bool
	ReadCalls   int
	WriteCalls  int
	ReadTimeout time.Duration
}

func NewTestableSerialPort() *TestableSerialPort {
	return &TestableSerialPort{
		ReadBuffer:  bytes.NewBuffer(nil),
		WriteBuffer: bytes.NewBuffer(nil),
	}
}

func (t *TestableSerialPort) Read(p []byte) (int, error) {
	t.mu.Lock()
	t.ReadCalls++
	if t.Closed {
		t.mu.Unlock()
		return 0, errors.New("serial port closed")
	}
	if t.ReadError != nil {
		err := t.ReadError
		t.ReadError = nil
		t.mu.Unlock()
		return 0, err
	}
	if t.ReadBuffer.Len() == 0 {
		hook := t.OnEmptyRead
		t.mu.Unlock()
		if hook != nil {
			hook()
		}
		return 0, nil
	}
	defer t.mu.Unlock()
	return t.ReadBuffer.Read(p)
}

func (t *TestableSerialPort) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.WriteCalls++
	if t.Closed {
		return 0, errors.New("serial port closed")
	}
	if t.WriteError != nil {
		err := t.WriteError
		t.WriteError = nil
		return 0, err
	}
	n, err := t.WriteBuffer.Write(p)
	if t.Reply != nil {
		t.ReadBuffer.Write(t.Reply(p))
	}
	return n, err
}

func (t *TestableSerialPort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Closed = true
	return t.CloseError
}

// SetReadTimeout implements TimeoutSerialPorter.
func (t *TestableSerialPort) SetReadTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ReadTimeout = timeout
	return nil
}

// AddReadData queues data for subsequent Read calls.
func (t *TestableSerialPort) AddReadData(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ReadBuffer.Write(data)
}

// GetWrittenData returns all data written to the port.
func (t *TestableSerialPort) GetWrittenData() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.WriteBuffer.Bytes()...)
}

// MockOpener hands out pre-built ports by path and records every open.
type MockOpener struct {
	mu    sync.Mutex
	Ports map[string]SerialPorter
	// Errors maps a path to the error its open returns.
	Errors map[string]error
	Calls  []MockOpenCall
}

// MockOpenCall records details of an Open call.
type MockOpenCall struct {
	Path    string
	Options PortOptions
}

func NewMockOpener() *MockOpener {
	return &MockOpener{
		Ports:  make(map[string]SerialPorter),
		Errors: make(map[string]error),
	}
}

// Open satisfies SerialPortOpener.
func (m *MockOpener) Open(path string, opts PortOptions) (SerialPorter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockOpenCall{Path: path, Options: opts})
	if err := m.Errors[path]; err != nil {
		return nil, err
	}
	port, ok := m.Ports[path]
	if !ok {
		return nil, errors.New("no such port: " + path)
	}
	return port, nil
}
