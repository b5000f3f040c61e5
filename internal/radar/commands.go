package radar

import "strings"

// CLI verbs understood by the sensor's configuration port.
const (
	CmdVersion     = "version"
	CmdProfileCfg  = "profileCfg"
	CmdChirpCfg    = "chirpCfg"
	CmdFrameCfg    = "frameCfg"
	CmdSensorStart = "sensorStart"
	CmdSensorStop  = "sensorStop"
	CmdCalibDc     = "calibDcRangeSigCfg"
)

var allowedVerbs = map[string]bool{
	CmdVersion:     true,
	CmdProfileCfg:  true,
	CmdChirpCfg:    true,
	CmdFrameCfg:    true,
	CmdSensorStart: true,
	CmdSensorStop:  true,
	CmdCalibDc:     true,
}

// Verb returns the first field of a command line.
func Verb(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// IsAllowedCommand reports whether cmd starts with a verb the controller is
// permitted to send. Bare verbs that take arguments are rejected.
func IsAllowedCommand(cmd string) bool {
	verb := Verb(cmd)
	if !allowedVerbs[verb] {
		return false
	}
	switch verb {
	case CmdVersion, CmdSensorStart, CmdSensorStop:
		return true
	default:
		return len(strings.Fields(cmd)) > 1
	}
}
