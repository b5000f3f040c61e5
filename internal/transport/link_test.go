package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialConnector_Connect(t *testing.T) {
	opener := NewMockOpener()
	cmdPort := NewTestableSerialPort()
	dataPort := NewTestableSerialPort()
	opener.Ports["/dev/ttyUSB0"] = cmdPort
	opener.Ports["/dev/ttyUSB1"] = dataPort

	conn := &SerialConnector{
		CommandPath: "/dev/ttyUSB0",
		DataPath:    "/dev/ttyUSB1",
		Open:        opener.Open,
	}
	link, err := conn.Connect()
	require.NoError(t, err)
	require.Len(t, opener.Calls, 2)
	assert.Equal(t, 0, opener.Calls[0].Options.BaudRate, "command port keeps caller options")
	assert.Equal(t, DefaultDataBaudRate, opener.Calls[1].Options.BaudRate)

	require.NoError(t, link.Close())
	assert.True(t, cmdPort.Closed)
	assert.True(t, dataPort.Closed)
}

func TestSerialConnector_DataPortFailureClosesCommandPort(t *testing.T) {
	opener := NewMockOpener()
	cmdPort := NewTestableSerialPort()
	opener.Ports["/dev/ttyUSB0"] = cmdPort
	opener.Errors["/dev/ttyUSB1"] = errors.New("permission denied")

	conn := &SerialConnector{CommandPath: "/dev/ttyUSB0", DataPath: "/dev/ttyUSB1", Open: opener.Open}
	link, err := conn.Connect()
	assert.Nil(t, link)
	assert.ErrorContains(t, err, "data port")
	assert.True(t, cmdPort.Closed)
}

func TestLink_CloseJoinsErrors(t *testing.T) {
	cmdPort := NewTestableSerialPort()
	cmdPort.CloseError = errors.New("busy")
	dataPort := NewTestableSerialPort()
	dataPort.CloseError = errors.New("gone")

	link := &Link{
		Bus:     NewZeroBus(0, 1000000),
		Command: NewUARTCommandChannel(cmdPort, newMockClock()),
		Data:    NewUARTDataChannel(dataPort, newMockClock()),
	}
	err := link.Close()
	require.Error(t, err)
	assert.ErrorContains(t, err, "command channel: busy")
	assert.ErrorContains(t, err, "data channel: gone")
}

func TestZeroBus_Transfer(t *testing.T) {
	bus := NewZeroBus(0, 1000000)
	in, err := bus.Transfer([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, in)
	assert.Equal(t, 1, bus.Transfers)

	require.NoError(t, bus.Close())
	_, err = bus.Transfer([]byte{1})
	assert.ErrorIs(t, err, ErrNotOpen)
}
