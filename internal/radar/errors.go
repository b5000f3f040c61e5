package radar

import "errors"

// Failure classes. Every error returned by Store, Calibrator and Controller
// wraps exactly one of these; match with errors.Is.
var (
	// ErrSequence means an operation ran before its prerequisite state or
	// configuration existed. No I/O was attempted.
	ErrSequence = errors.New("operation out of sequence")
	// ErrDeviceRejected means the device answered without the success marker.
	ErrDeviceRejected = errors.New("device rejected command")
	// ErrTransport means a command could not be sent or no reply arrived.
	ErrTransport = errors.New("transport failure")
	// ErrValidation means a configuration field or cross reference is invalid.
	ErrValidation = errors.New("invalid configuration")
)
