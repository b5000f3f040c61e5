package radar

import (
	"fmt"
)

// TX antenna enable bits for ChirpConfig.TxEnable.
const (
	TX1 = 1 << iota
	TX2
	TX3

	txMask = TX1 | TX2 | TX3
)

// ProfileConfig holds the RF waveform parameters shared by a set of chirps.
type ProfileConfig struct {
	ProfileID           int     `json:"profile_id" yaml:"profile_id"`
	FreqStartGHz        float64 `json:"freq_start_ghz" yaml:"freq_start_ghz"`
	FreqEndGHz          float64 `json:"freq_end_ghz" yaml:"freq_end_ghz"`
	IdleTimeUsec        float64 `json:"idle_time_usec" yaml:"idle_time_usec"`
	ADCStartTimeUsec    float64 `json:"adc_start_time_usec" yaml:"adc_start_time_usec"`
	RampSlopeMHzPerUsec float64 `json:"ramp_slope_mhz_per_usec" yaml:"ramp_slope_mhz_per_usec"`
	TxPower             int     `json:"tx_power" yaml:"tx_power"`
	RxGain              int     `json:"rx_gain" yaml:"rx_gain"`
}

// ChirpDurationUsec is the ramp time needed to sweep the profile's band.
func (p ProfileConfig) ChirpDurationUsec() float64 {
	return (p.FreqEndGHz - p.FreqStartGHz) * 1000 / p.RampSlopeMHzPerUsec
}

// Validate checks the profile's own fields.
func (p ProfileConfig) Validate() error {
	switch {
	case p.ProfileID < 0:
		return fmt.Errorf("%w: profile id %d is negative", ErrValidation, p.ProfileID)
	case p.FreqEndGHz < p.FreqStartGHz:
		return fmt.Errorf("%w: profile %d end frequency %.2f GHz below start %.2f GHz",
			ErrValidation, p.ProfileID, p.FreqEndGHz, p.FreqStartGHz)
	case p.ADCStartTimeUsec < 0:
		return fmt.Errorf("%w: profile %d ADC start time %.1f us is negative", ErrValidation, p.ProfileID, p.ADCStartTimeUsec)
	case p.IdleTimeUsec < 0:
		return fmt.Errorf("%w: profile %d idle time %.1f us is negative", ErrValidation, p.ProfileID, p.IdleTimeUsec)
	case p.RampSlopeMHzPerUsec <= 0:
		return fmt.Errorf("%w: profile %d ramp slope must be positive, got %.3f", ErrValidation, p.ProfileID, p.RampSlopeMHzPerUsec)
	}
	return nil
}

// CommandString renders the profileCfg CLI command.
func (p ProfileConfig) CommandString() string {
	return fmt.Sprintf("%s %d %.2f %.1f %.1f %.1f 0 0 0 0 0 0 %d 0 %d %.3f 0 1",
		CmdProfileCfg, p.ProfileID, p.FreqStartGHz,
		p.IdleTimeUsec, p.ADCStartTimeUsec, p.ChirpDurationUsec(),
		p.TxPower, p.RxGain, p.RampSlopeMHzPerUsec)
}

// ChirpConfig places one chirp (or a run of identical chirps) into the
// device's chirp table.
type ChirpConfig struct {
	// ChirpID is for caller bookkeeping only; it is not sent to the device.
	ChirpID   int `json:"chirp_id" yaml:"chirp_id"`
	ProfileID int `json:"profile_id" yaml:"profile_id"`
	StartIdx  int `json:"start_idx" yaml:"start_idx"`
	EndIdx    int `json:"end_idx" yaml:"end_idx"`
	// TxEnable is a bitmask of TX1, TX2 and TX3.
	TxEnable         int     `json:"tx_enable" yaml:"tx_enable"`
	IdleTimeUsec     float64 `json:"idle_time_usec" yaml:"idle_time_usec"`
	ADCStartTimeUsec float64 `json:"adc_start_time_usec" yaml:"adc_start_time_usec"`
}

// Validate checks the chirp's own fields.
func (c ChirpConfig) Validate() error {
	switch {
	case c.StartIdx < 0:
		return fmt.Errorf("%w: chirp %d start index %d is negative", ErrValidation, c.ChirpID, c.StartIdx)
	case c.EndIdx < c.StartIdx:
		return fmt.Errorf("%w: chirp %d end index %d before start index %d", ErrValidation, c.ChirpID, c.EndIdx, c.StartIdx)
	case c.TxEnable <= 0 || c.TxEnable&^txMask != 0:
		return fmt.Errorf("%w: chirp %d tx enable mask %#x must combine TX1|TX2|TX3", ErrValidation, c.ChirpID, c.TxEnable)
	case c.IdleTimeUsec < 0 || c.ADCStartTimeUsec < 0:
		return fmt.Errorf("%w: chirp %d timing overrides must be non-negative", ErrValidation, c.ChirpID)
	}
	return nil
}

// CommandString renders the chirpCfg CLI command. Start frequency and slope
// variations are always zero.
func (c ChirpConfig) CommandString() string {
	return fmt.Sprintf("%s %d %d %d 0.0 0.0 %.1f %.1f %d",
		CmdChirpCfg, c.StartIdx, c.EndIdx, c.ProfileID,
		c.IdleTimeUsec, c.ADCStartTimeUsec, c.TxEnable)
}

// FrameConfig describes the repeating capture cycle over a chirp index range.
type FrameConfig struct {
	FrameID       int `json:"frame_id" yaml:"frame_id"`
	ChirpStartIdx int `json:"chirp_start_idx" yaml:"chirp_start_idx"`
	ChirpEndIdx   int `json:"chirp_end_idx" yaml:"chirp_end_idx"`
	NumLoops      int `json:"num_loops" yaml:"num_loops"`
	// NumFrames of 0 captures until stopped.
	NumFrames  int     `json:"num_frames" yaml:"num_frames"`
	PeriodUsec float64 `json:"period_usec" yaml:"period_usec"`
	// TriggerSelect 1 is software trigger, 2 hardware.
	TriggerSelect    int     `json:"trigger_select" yaml:"trigger_select"`
	TriggerDelayUsec float64 `json:"trigger_delay_usec" yaml:"trigger_delay_usec"`
}

// Validate checks the frame's own fields. Chirp index bounds are checked by
// the Store against the committed chirps.
func (f FrameConfig) Validate() error {
	switch {
	case f.ChirpStartIdx < 0:
		return fmt.Errorf("%w: frame %d chirp start index %d is negative", ErrValidation, f.FrameID, f.ChirpStartIdx)
	case f.ChirpEndIdx < f.ChirpStartIdx:
		return fmt.Errorf("%w: frame %d chirp end index %d before start index %d", ErrValidation, f.FrameID, f.ChirpEndIdx, f.ChirpStartIdx)
	case f.NumLoops <= 0:
		return fmt.Errorf("%w: frame %d loop count must be positive, got %d", ErrValidation, f.FrameID, f.NumLoops)
	case f.PeriodUsec <= 0:
		return fmt.Errorf("%w: frame %d period must be positive, got %.1f", ErrValidation, f.FrameID, f.PeriodUsec)
	case f.NumFrames < 0:
		return fmt.Errorf("%w: frame %d frame count %d is negative", ErrValidation, f.FrameID, f.NumFrames)
	case f.TriggerDelayUsec < 0:
		return fmt.Errorf("%w: frame %d trigger delay is negative", ErrValidation, f.FrameID)
	}
	return nil
}

// PeriodMs is the frame periodicity in milliseconds as the CLI expects it.
func (f FrameConfig) PeriodMs() float64 {
	return f.PeriodUsec / 1000
}

// CommandString renders the frameCfg CLI command. The trailing 0 leaves low
// power mode off.
func (f FrameConfig) CommandString() string {
	return fmt.Sprintf("%s %d %d %d %d %.3f %d %.1f 0",
		CmdFrameCfg, f.ChirpStartIdx, f.ChirpEndIdx, f.NumLoops,
		f.NumFrames, f.PeriodMs(), f.TriggerSelect, f.TriggerDelayUsec)
}
