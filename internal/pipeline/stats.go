package pipeline

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a target list for logging and display.
type Summary struct {
	Count        int
	MeanVelocity float64
	StdVelocity  float64
	MinRange     float64
	MaxRange     float64
}

// Summarize computes velocity and range statistics over tl. The standard
// deviation is zero for fewer than two targets.
func Summarize(tl TargetList) Summary {
	n := len(tl.Targets)
	if n == 0 {
		return Summary{}
	}

	velocities := make([]float64, n)
	ranges := make([]float64, n)
	for i, t := range tl.Targets {
		velocities[i] = t.Velocity
		ranges[i] = t.Position.Range()
	}

	s := Summary{
		Count:    n,
		MinRange: floats.Min(ranges),
		MaxRange: floats.Max(ranges),
	}
	if n == 1 {
		s.MeanVelocity = velocities[0]
		return s
	}
	s.MeanVelocity, s.StdVelocity = stat.MeanStdDev(velocities, nil)
	return s
}

// Range returns the distance from the sensor.
func (p Position) Range() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}
