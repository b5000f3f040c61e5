package radar

import "fmt"

// State is the device session state. Later states imply every earlier one
// has been reached in this session.
type State int

const (
	StateOff State = iota
	StatePoweredOn
	StateInitialized
	StateProfileSet
	StateChirpsSet
	StateFrameSet
	StateCapturing
)

var stateNames = [...]string{
	StateOff:         "off",
	StatePoweredOn:   "powered-on",
	StateInitialized: "initialized",
	StateProfileSet:  "profile-set",
	StateChirpsSet:   "chirps-set",
	StateFrameSet:    "frame-set",
	StateCapturing:   "capturing",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

type operation string

const (
	opPowerOn          operation = "power on"
	opInitialize       operation = "initialize"
	opConfigureProfile operation = "configure profile"
	opConfigureChirps  operation = "configure chirps"
	opConfigureFrame   operation = "configure frame"
	opCalibrate        operation = "calibrate"
	opStartCapture     operation = "start capture"
	opReadData         operation = "read data"
)

// permitted lists the states from which each operation may run. PowerOff and
// StopCapture are absent: they are accepted in every state.
var permitted = map[operation]func(State) bool{
	opPowerOn:    only(StateOff),
	opInitialize: only(StatePoweredOn),
	// The device refuses reconfiguration while the sensor runs.
	opConfigureProfile: between(StateInitialized, StateFrameSet),
	opConfigureChirps:  between(StateProfileSet, StateFrameSet),
	opConfigureFrame:   between(StateChirpsSet, StateFrameSet),
	opCalibrate:        between(StateInitialized, StateFrameSet),
	opStartCapture:     only(StateFrameSet),
	opReadData:         only(StateCapturing),
}

func only(want State) func(State) bool {
	return func(s State) bool { return s == want }
}

func between(lo, hi State) func(State) bool {
	return func(s State) bool { return s >= lo && s <= hi }
}

// checkTransition returns an ErrSequence error if op may not run in s.
func checkTransition(op operation, s State) error {
	allowed, ok := permitted[op]
	if !ok || !allowed(s) {
		return fmt.Errorf("%w: cannot %s while %s", ErrSequence, op, s)
	}
	return nil
}
