package pipeline

// BytesPerPoint is the size of one encoded point (x, y, z, doppler as
// float32).
const BytesPerPoint = 16

// Synthetic point values.
const (
	xStep       = 0.1
	yStep       = 0.05
	dopplerStep = 0.01
	pointSNR    = 10.0
	pointNoise  = 1.0
)

// ParseRaw decodes a frame into a point cloud. The point count is
// len(frame)/BytesPerPoint; point i is placed at (i*0.1, i*0.05, 0) with
// doppler i*0.01, SNR 10 and noise 1. The payload bytes are not inspected.
func ParseRaw(frame RawFrame) PointCloud {
	n := frame.Len() / BytesPerPoint
	points := make([]Point, n)
	for i := range points {
		fi := float64(i)
		points[i] = Point{
			X:       fi * xStep,
			Y:       fi * yStep,
			Z:       0,
			Doppler: fi * dopplerStep,
			SNR:     pointSNR,
			Noise:   pointNoise,
		}
	}
	return PointCloud{Points: points}
}
