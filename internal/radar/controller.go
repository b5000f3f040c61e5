// Package radar drives an FMCW radar sensor through power-up, configuration,
// calibration and capture over its command port.
//
// The Controller is a synchronous state machine: every method blocks until
// the device answers or the transport times out, and reports failure as an
// error wrapping ErrSequence, ErrDeviceRejected, ErrTransport or
// ErrValidation. Nothing is retried.
package radar

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/mmwave/internal/monitoring"
	"github.com/banshee-data/mmwave/internal/pipeline"
	"github.com/banshee-data/mmwave/internal/transport"
)

// Defaults for Options fields left at zero.
const (
	DefaultResponseTimeout = time.Second
	DefaultPacketTimeout   = 2 * time.Second
	DefaultPacketSize      = 1024
)

// Options tunes a Controller. The zero value is usable.
type Options struct {
	// Logf receives diagnostic lines. Defaults to monitoring.Logf.
	Logf func(format string, v ...interface{})

	ResponseTimeout time.Duration
	PacketTimeout   time.Duration
	// PacketSize is the number of bytes read per raw frame.
	PacketSize int

	// Calibrator defaults to NewCalibrator().
	Calibrator *Calibrator
}

func (o Options) withDefaults() Options {
	if o.Logf == nil {
		o.Logf = func(format string, v ...interface{}) { monitoring.Logf(format, v...) }
	}
	if o.ResponseTimeout <= 0 {
		o.ResponseTimeout = DefaultResponseTimeout
	}
	if o.PacketTimeout <= 0 {
		o.PacketTimeout = DefaultPacketTimeout
	}
	if o.PacketSize <= 0 {
		o.PacketSize = DefaultPacketSize
	}
	if o.Calibrator == nil {
		o.Calibrator = NewCalibrator()
	}
	return o
}

// Controller owns one sensor's transports and configuration for the
// lifetime of a session. Methods are serialised by an internal lock so
// command/response pairs are never interleaved.
type Controller struct {
	mu        sync.Mutex
	opts      Options
	connector transport.Connector

	link       *transport.Link
	store      *Store
	acq        *acquisition
	state      State
	calibrated bool
	calib      *CalibrationResult
	firmware   string
	session    string
}

// NewController returns a powered-off controller that will reach the device
// through connector.
func NewController(connector transport.Connector, opts Options) *Controller {
	return &Controller{
		opts:      opts.withDefaults(),
		connector: connector,
		store:     NewStore(),
		state:     StateOff,
	}
}

func (c *Controller) logf(format string, v ...interface{}) {
	if c.session != "" {
		format = "[radar %s] " + format
		v = append([]interface{}{c.session[:8]}, v...)
	} else {
		format = "[radar] " + format
	}
	c.opts.Logf(format, v...)
}

// sendCommand writes cmd and waits for the device's reply.
func (c *Controller) sendCommand(cmd string) error {
	if !IsAllowedCommand(cmd) {
		return fmt.Errorf("%w: command %q not permitted", ErrValidation, cmd)
	}
	verb := Verb(cmd)
	if err := c.link.Command.SendCommand(cmd); err != nil {
		c.logf("%s: send failed: %v", verb, err)
		return fmt.Errorf("%w: send %s: %w", ErrTransport, verb, err)
	}
	resp, err := c.link.Command.ReadResponse(c.opts.ResponseTimeout)
	if err != nil {
		c.logf("%s: no response: %v", verb, err)
		return fmt.Errorf("%w: %s: %w", ErrTransport, verb, err)
	}
	if !transport.IsSuccess(resp) {
		c.logf("%s: unexpected response %q", verb, resp)
		return fmt.Errorf("%w: %s answered %q", ErrDeviceRejected, verb, resp)
	}
	c.logf("%s: ok", verb)
	return nil
}

// settle moves a configuring session to the state implied by the store.
func (c *Controller) settle() {
	switch {
	case c.store.frame != nil:
		c.state = StateFrameSet
	case len(c.store.chirps) > 0:
		c.state = StateChirpsSet
	case c.store.profile != nil:
		c.state = StateProfileSet
	default:
		c.state = StateInitialized
	}
}

// PowerOn opens the SPI bus and both UARTs. It may only be called while off.
// If the link cannot be opened the controller stays off.
func (c *Controller) PowerOn() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkTransition(opPowerOn, c.state); err != nil {
		return err
	}

	link, err := c.connector.Connect()
	if err != nil {
		c.logf("power on failed: %v", err)
		return fmt.Errorf("%w: open transports: %w", ErrTransport, err)
	}
	c.link = link
	c.acq = &acquisition{
		data:       link.Data,
		packetSize: c.opts.PacketSize,
		timeout:    c.opts.PacketTimeout,
	}
	c.session = uuid.NewString()
	c.state = StatePoweredOn
	c.logf("powered on")
	return nil
}

// Initialize queries the firmware version. The reply is recorded for
// diagnostics but not validated.
func (c *Controller) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkTransition(opInitialize, c.state); err != nil {
		return err
	}

	c.firmware = ""
	if err := c.link.Command.SendCommand(CmdVersion); err != nil {
		c.logf("version query not sent: %v", err)
	} else if resp, err := c.link.Command.ReadResponse(c.opts.ResponseTimeout); err != nil {
		c.logf("version query unanswered: %v", err)
	} else {
		c.firmware = resp
		c.logf("firmware: %s", resp)
	}

	c.state = StateInitialized
	c.logf("initialized")
	return nil
}

// ConfigureProfile sends p and commits it on success. A new profile
// invalidates previously configured chirps and frame.
func (c *Controller) ConfigureProfile(p ProfileConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkTransition(opConfigureProfile, c.state); err != nil {
		return err
	}
	if err := c.store.SetProfile(p, c.sendCommand); err != nil {
		c.logf("profile %d not configured: %v", p.ProfileID, err)
		return err
	}
	c.settle()
	c.logf("profile %d configured", p.ProfileID)
	return nil
}

// ConfigureChirps sends every chirp and commits the set only if all are
// accepted.
func (c *Controller) ConfigureChirps(chirps []ChirpConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkTransition(opConfigureChirps, c.state); err != nil {
		return err
	}
	if err := c.store.SetChirps(chirps, c.sendCommand); err != nil {
		c.logf("chirp set not configured: %v", err)
		return err
	}
	c.settle()
	c.logf("%d chirps configured", len(chirps))
	return nil
}

// ConfigureFrame checks f against the configured chirps, sends it and
// commits it on success.
func (c *Controller) ConfigureFrame(f FrameConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkTransition(opConfigureFrame, c.state); err != nil {
		return err
	}
	if err := c.store.SetFrame(f, c.sendCommand); err != nil {
		c.logf("frame %d not configured: %v", f.FrameID, err)
		return err
	}
	c.settle()
	c.logf("frame %d configured", f.FrameID)
	return nil
}

// Calibrate runs the self-calibration. Success sets the calibrated flag and
// stores the result; failure clears both.
func (c *Controller) Calibrate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkTransition(opCalibrate, c.state); err != nil {
		return err
	}

	result, err := c.opts.Calibrator.Run(c.sendCommand)
	if err != nil {
		c.calibrated = false
		c.calib = nil
		c.logf("calibration failed: %v", err)
		return err
	}
	c.calibrated = true
	c.calib = &result
	c.logf("calibration complete: %+v", result.Data)
	return nil
}

// StartCapture starts the sensor and enables frame reads. Capturing without
// calibration is allowed but logged.
func (c *Controller) StartCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkTransition(opStartCapture, c.state); err != nil {
		return err
	}
	if !c.calibrated {
		c.logf("warning: starting capture without calibration")
	}
	if err := c.sendCommand(CmdSensorStart); err != nil {
		c.logf("capture not started: %v", err)
		return err
	}
	c.state = StateCapturing
	c.acq.start()
	c.logf("capture started")
	return nil
}

// ReadData reads one raw frame. A failed read leaves the capture running.
func (c *Controller) ReadData() (pipeline.RawFrame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkTransition(opReadData, c.state); err != nil {
		return pipeline.RawFrame{}, err
	}
	frame, err := c.acq.capture()
	if err != nil {
		c.logf("frame read failed: %v", err)
		return pipeline.RawFrame{}, err
	}
	return frame, nil
}

// StopCapture disables frame reads and stops the sensor. The session leaves
// the capturing state even if the device does not acknowledge sensorStop;
// that failure is still returned. Calling it when not capturing does nothing.
func (c *Controller) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopCapture()
}

func (c *Controller) stopCapture() error {
	if c.state != StateCapturing {
		return nil
	}
	c.acq.stop()
	err := c.sendCommand(CmdSensorStop)
	if err != nil {
		c.logf("sensor did not acknowledge stop, forcing capture off: %v", err)
	}
	c.state = StateFrameSet
	c.logf("capture stopped")
	return err
}

// PowerOff stops any capture, releases the transports and clears the
// calibration and configuration. It always leaves the controller off; the
// returned error reports transports that failed to close.
func (c *Controller) PowerOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if err := c.stopCapture(); err != nil {
		errs = append(errs, err)
	}
	if c.link != nil {
		if err := c.link.Close(); err != nil {
			c.logf("transport close: %v", err)
			errs = append(errs, fmt.Errorf("%w: close: %w", ErrTransport, err))
		}
	}
	if c.state != StateOff {
		c.logf("powered off")
	}

	c.link = nil
	c.acq = nil
	c.state = StateOff
	c.calibrated = false
	c.calib = nil
	c.firmware = ""
	c.store.Reset()
	c.session = ""
	return errors.Join(errs...)
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Capturing reports whether frames can be read.
func (c *Controller) Capturing() bool {
	return c.State() == StateCapturing
}

// Calibrated reports whether the last calibration in this session succeeded.
func (c *Controller) Calibrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calibrated
}

// Calibration returns the result of the last successful calibration.
func (c *Controller) Calibration() (CalibrationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calib == nil {
		return CalibrationResult{}, false
	}
	return *c.calib, true
}

// FirmwareVersion returns the reply to the last version query.
func (c *Controller) FirmwareVersion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.firmware
}

// SessionID identifies the current power-on session; empty when off.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Profile returns the committed profile.
func (c *Controller) Profile() (ProfileConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Profile()
}

// Chirps returns a copy of the committed chirp set.
func (c *Controller) Chirps() []ChirpConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Chirps()
}

// Frame returns the committed frame.
func (c *Controller) Frame() (FrameConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Frame()
}
