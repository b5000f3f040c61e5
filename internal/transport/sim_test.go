package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimDevice_CommandRoundTrip(t *testing.T) {
	dev := NewSimDevice()
	link, err := dev.Connect()
	require.NoError(t, err)

	require.NoError(t, link.Command.SendCommand("version"))
	resp, err := link.Command.ReadResponse(time.Second)
	require.NoError(t, err)
	assert.True(t, IsSuccess(resp))
	assert.Contains(t, resp, "xWR18xx")

	// no command outstanding means nothing to read
	_, err = link.Command.ReadResponse(time.Second)
	assert.ErrorIs(t, err, ErrTimeout)

	assert.Equal(t, []string{"version"}, dev.Sent())
}

func TestSimDevice_RejectVerb(t *testing.T) {
	dev := NewSimDevice()
	dev.Respond = RejectVerb("frameCfg")
	link, err := dev.Connect()
	require.NoError(t, err)

	require.NoError(t, link.Command.SendCommand("frameCfg 0 1 64 0 50.000 1 0.0 0"))
	resp, err := link.Command.ReadResponse(time.Second)
	require.NoError(t, err)
	assert.False(t, IsSuccess(resp))

	require.NoError(t, link.Command.SendCommand("sensorStart"))
	resp, err = link.Command.ReadResponse(time.Second)
	require.NoError(t, err)
	assert.True(t, IsSuccess(resp))
}

func TestSimDevice_SilentReply(t *testing.T) {
	dev := NewSimDevice()
	dev.Respond = func(string) string { return "" }
	link, err := dev.Connect()
	require.NoError(t, err)

	require.NoError(t, link.Command.SendCommand("sensorStop"))
	_, err = link.Command.ReadResponse(time.Second)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSimDevice_ReadPacket(t *testing.T) {
	dev := NewSimDevice()
	link, err := dev.Connect()
	require.NoError(t, err)

	packet, err := link.Data.ReadPacket(1024, time.Second)
	require.NoError(t, err)
	require.Len(t, packet, 1024)
	assert.Equal(t, byte(0), packet[0])
	assert.Equal(t, byte(255), packet[255])
	assert.Equal(t, byte(1), packet[257])

	dev.FailReads(1)
	_, err = link.Data.ReadPacket(1024, time.Second)
	assert.ErrorIs(t, err, ErrTimeout)
	_, err = link.Data.ReadPacket(1024, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 3, dev.PacketReads())
}

func TestSimDevice_Close(t *testing.T) {
	dev := NewSimDevice()
	link, err := dev.Connect()
	require.NoError(t, err)
	require.NoError(t, link.Close())
	require.NoError(t, link.Close())
	assert.Equal(t, 2, dev.Closes())
	assert.Equal(t, 1, dev.Connects())

	assert.ErrorIs(t, link.Command.SendCommand("version"), ErrNotOpen)
	_, err = link.Data.ReadPacket(16, time.Second)
	assert.ErrorIs(t, err, ErrNotOpen)
}
