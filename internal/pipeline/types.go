// Package pipeline turns raw capture frames into point clouds and target
// lists. The detector is a fixed placeholder: output depends only on the
// frame length, and must stay byte-for-byte compatible with existing
// consumers.
package pipeline

// RawFrame is one capture read from the data port. It is not retained by the
// controller once returned.
type RawFrame struct {
	// Seq counts frames read since capture started, from 1.
	Seq  uint64
	Data []byte
}

// Len returns the frame size in bytes.
func (f RawFrame) Len() int { return len(f.Data) }

// Point is a single detection in sensor coordinates (metres, m/s, dB).
type Point struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Doppler float64 `json:"doppler"`
	SNR     float64 `json:"snr"`
	Noise   float64 `json:"noise"`
}

// PointCloud is the ordered set of points parsed from one frame.
type PointCloud struct {
	Points []Point `json:"points"`
}

// Position is a target location in sensor coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Target is a point that survived detection.
type Target struct {
	// ID is the index of the source point in its PointCloud.
	ID       int      `json:"id"`
	Position Position `json:"position"`
	Velocity float64  `json:"velocity"`
}

// TargetList is the ordered detector output for one frame.
type TargetList struct {
	Targets []Target `json:"targets"`
}
