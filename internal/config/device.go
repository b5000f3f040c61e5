// Package config loads the device configuration used by the radar CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/mmwave/internal/radar"
	"github.com/banshee-data/mmwave/internal/transport"
)

// ExampleConfigPath is the sample configuration shipped with the repository.
const ExampleConfigPath = "config/radar.example.yaml"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// DeviceConfig describes one sensor: where its ports are, how long to wait
// for it, and the waveform to program. Omitted fields fall back to the
// defaults returned by the Get* methods, so partial files are safe.
type DeviceConfig struct {
	CommandPort   *string                `json:"command_port,omitempty" yaml:"command_port,omitempty"`
	DataPort      *string                `json:"data_port,omitempty" yaml:"data_port,omitempty"`
	CommandSerial *transport.PortOptions `json:"command_serial,omitempty" yaml:"command_serial,omitempty"`
	DataSerial    *transport.PortOptions `json:"data_serial,omitempty" yaml:"data_serial,omitempty"`

	ResponseTimeout *string `json:"response_timeout,omitempty" yaml:"response_timeout,omitempty"` // duration string like "1s"
	PacketTimeout   *string `json:"packet_timeout,omitempty" yaml:"packet_timeout,omitempty"`
	PacketSize      *int    `json:"packet_size,omitempty" yaml:"packet_size,omitempty"`
	Frames          *int    `json:"frames,omitempty" yaml:"frames,omitempty"`

	Profile *radar.ProfileConfig `json:"profile,omitempty" yaml:"profile,omitempty"`
	Chirps  []radar.ChirpConfig  `json:"chirps,omitempty" yaml:"chirps,omitempty"`
	Frame   *radar.FrameConfig   `json:"frame,omitempty" yaml:"frame,omitempty"`
}

func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptyDeviceConfig returns a DeviceConfig with every field unset.
func EmptyDeviceConfig() *DeviceConfig {
	return &DeviceConfig{}
}

// LoadDeviceConfig reads a JSON or YAML device config. The format follows
// the file extension (.json, .yaml or .yml).
func LoadDeviceConfig(path string) (*DeviceConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDeviceConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", ext, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set. Cross-checks between chirps and
// frame are left to the radar store, which applies them when configuring.
func (c *DeviceConfig) Validate() error {
	durations := []struct {
		name  string
		value *string
	}{
		{"response_timeout", c.ResponseTimeout},
		{"packet_timeout", c.PacketTimeout},
	}
	for _, d := range durations {
		if d.value == nil || *d.value == "" {
			continue
		}
		v, err := time.ParseDuration(*d.value)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", d.name, *d.value, err)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, *d.value)
		}
	}

	if c.PacketSize != nil && *c.PacketSize <= 0 {
		return fmt.Errorf("packet_size must be positive, got %d", *c.PacketSize)
	}
	if c.Frames != nil && *c.Frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", *c.Frames)
	}

	if c.CommandSerial != nil {
		if _, err := c.CommandSerial.Normalize(); err != nil {
			return fmt.Errorf("command_serial: %w", err)
		}
	}
	if c.DataSerial != nil {
		if _, err := c.DataSerial.Normalize(); err != nil {
			return fmt.Errorf("data_serial: %w", err)
		}
	}

	if c.Profile != nil {
		if err := c.Profile.Validate(); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}
	for i := range c.Chirps {
		if err := c.Chirps[i].Validate(); err != nil {
			return fmt.Errorf("chirps[%d]: %w", i, err)
		}
	}
	if c.Frame != nil {
		if err := c.Frame.Validate(); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
	}
	return nil
}

func parseDurationOr(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return def
	}
	return d
}

// GetCommandPort returns the command UART path or the default.
func (c *DeviceConfig) GetCommandPort() string {
	if c.CommandPort == nil {
		return "/dev/ttyACM0"
	}
	return *c.CommandPort
}

// GetDataPort returns the data UART path or the default.
func (c *DeviceConfig) GetDataPort() string {
	if c.DataPort == nil {
		return "/dev/ttyACM1"
	}
	return *c.DataPort
}

// GetCommandSerial returns the command UART options or 115200 8N1.
func (c *DeviceConfig) GetCommandSerial() transport.PortOptions {
	if c.CommandSerial == nil {
		return transport.PortOptions{BaudRate: transport.DefaultCommandBaudRate}
	}
	return *c.CommandSerial
}

// GetDataSerial returns the data UART options or 921600 8N1.
func (c *DeviceConfig) GetDataSerial() transport.PortOptions {
	if c.DataSerial == nil {
		return transport.PortOptions{BaudRate: transport.DefaultDataBaudRate}
	}
	return *c.DataSerial
}

func (c *DeviceConfig) GetResponseTimeout() time.Duration {
	return parseDurationOr(c.ResponseTimeout, radar.DefaultResponseTimeout)
}

func (c *DeviceConfig) GetPacketTimeout() time.Duration {
	return parseDurationOr(c.PacketTimeout, radar.DefaultPacketTimeout)
}

// GetPacketSize returns the raw frame size in bytes or the default.
func (c *DeviceConfig) GetPacketSize() int {
	if c.PacketSize == nil {
		return radar.DefaultPacketSize
	}
	return *c.PacketSize
}

// GetFrames returns how many frames the CLI captures. Zero is allowed and
// skips capture entirely.
func (c *DeviceConfig) GetFrames() int {
	if c.Frames == nil {
		return 3
	}
	return *c.Frames
}

// GetProfile returns the configured profile or the 77 GHz sample profile.
func (c *DeviceConfig) GetProfile() radar.ProfileConfig {
	if c.Profile == nil {
		return radar.ProfileConfig{
			ProfileID:           0,
			FreqStartGHz:        77.0,
			FreqEndGHz:          77.4,
			IdleTimeUsec:        7.0,
			ADCStartTimeUsec:    5.0,
			RampSlopeMHzPerUsec: 50.0,
			TxPower:             3,
			RxGain:              30,
		}
	}
	return *c.Profile
}

// GetChirps returns the configured chirps or one chirp per TX1 and TX2.
func (c *DeviceConfig) GetChirps() []radar.ChirpConfig {
	if len(c.Chirps) == 0 {
		profileID := c.GetProfile().ProfileID
		return []radar.ChirpConfig{
			{ChirpID: 0, ProfileID: profileID, StartIdx: 0, EndIdx: 0, TxEnable: radar.TX1},
			{ChirpID: 1, ProfileID: profileID, StartIdx: 1, EndIdx: 1, TxEnable: radar.TX2},
		}
	}
	out := make([]radar.ChirpConfig, len(c.Chirps))
	copy(out, c.Chirps)
	return out
}

// GetFrame returns the configured frame or 64 loops of chirps 0..1 every
// 50ms, running until stopped.
func (c *DeviceConfig) GetFrame() radar.FrameConfig {
	if c.Frame == nil {
		return radar.FrameConfig{
			FrameID:       0,
			ChirpStartIdx: 0,
			ChirpEndIdx:   1,
			NumLoops:      64,
			NumFrames:     0,
			PeriodUsec:    50000,
			TriggerSelect: 1,
		}
	}
	return *c.Frame
}

// ControllerOptions maps the timing fields onto radar.Options.
func (c *DeviceConfig) ControllerOptions() radar.Options {
	return radar.Options{
		ResponseTimeout: c.GetResponseTimeout(),
		PacketTimeout:   c.GetPacketTimeout(),
		PacketSize:      c.GetPacketSize(),
	}
}

// SerialConnector returns a connector for the configured ports.
func (c *DeviceConfig) SerialConnector() *transport.SerialConnector {
	return &transport.SerialConnector{
		CommandPath:    c.GetCommandPort(),
		CommandOptions: c.GetCommandSerial(),
		DataPath:       c.GetDataPort(),
		DataOptions:    c.GetDataSerial(),
	}
}
