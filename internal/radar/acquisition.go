package radar

import (
	"fmt"
	"time"

	"github.com/banshee-data/mmwave/internal/pipeline"
	"github.com/banshee-data/mmwave/internal/transport"
)

// acquisition pulls raw frames from the data port while enabled.
type acquisition struct {
	data       transport.DataChannel
	packetSize int
	timeout    time.Duration
	active     bool
	seq        uint64
}

func (a *acquisition) start() {
	a.active = true
	a.seq = 0
}

func (a *acquisition) stop() {
	a.active = false
}

func (a *acquisition) capture() (pipeline.RawFrame, error) {
	if !a.active {
		return pipeline.RawFrame{}, fmt.Errorf("%w: acquisition not started", ErrSequence)
	}
	packet, err := a.data.ReadPacket(a.packetSize, a.timeout)
	if err != nil {
		return pipeline.RawFrame{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	a.seq++
	return pipeline.RawFrame{Seq: a.seq, Data: packet}, nil
}
