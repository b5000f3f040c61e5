// Package units converts radial velocities reported by the pipeline (m/s)
// for display.
package units

import (
	"fmt"
	"strings"
)

// Speed units accepted on the command line.
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// ParseSpeedUnit normalises a unit name. Matching ignores case and
// surrounding space.
func ParseSpeedUnit(s string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(s))
	for _, valid := range ValidUnits {
		if u == valid {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown speed unit %q: expected one of %s", s, strings.Join(ValidUnits, ", "))
}

// ConvertSpeed converts a speed from meters per second to the target units.
// Unknown units leave the value unchanged.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// Symbol returns the display suffix for a unit.
func Symbol(unit string) string {
	switch unit {
	case MPH:
		return "mph"
	case KMPH, KPH:
		return "km/h"
	default:
		return "m/s"
	}
}
