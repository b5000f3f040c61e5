package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/mmwave/internal/radar"
	"github.com/banshee-data/mmwave/internal/transport"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestEmptyDeviceConfigDefaults(t *testing.T) {
	cfg := EmptyDeviceConfig()

	if got := cfg.GetCommandPort(); got != "/dev/ttyACM0" {
		t.Errorf("GetCommandPort() = %q, want /dev/ttyACM0", got)
	}
	if got := cfg.GetDataPort(); got != "/dev/ttyACM1" {
		t.Errorf("GetDataPort() = %q, want /dev/ttyACM1", got)
	}
	if got := cfg.GetCommandSerial().BaudRate; got != 115200 {
		t.Errorf("command baud = %d, want 115200", got)
	}
	if got := cfg.GetDataSerial().BaudRate; got != 921600 {
		t.Errorf("data baud = %d, want 921600", got)
	}
	if got := cfg.GetResponseTimeout(); got != time.Second {
		t.Errorf("GetResponseTimeout() = %v, want 1s", got)
	}
	if got := cfg.GetPacketTimeout(); got != 2*time.Second {
		t.Errorf("GetPacketTimeout() = %v, want 2s", got)
	}
	if got := cfg.GetPacketSize(); got != 1024 {
		t.Errorf("GetPacketSize() = %d, want 1024", got)
	}
	if got := cfg.GetFrames(); got != 3 {
		t.Errorf("GetFrames() = %d, want 3", got)
	}

	p := cfg.GetProfile()
	if err := p.Validate(); err != nil {
		t.Errorf("default profile invalid: %v", err)
	}
	if want := "profileCfg 0 77.00 7.0 5.0 8.0 0 0 0 0 0 0 3 0 30 50.000 0 1"; p.CommandString() != want {
		t.Errorf("default profile = %q, want %q", p.CommandString(), want)
	}
	chirps := cfg.GetChirps()
	if len(chirps) != 2 || chirps[0].TxEnable != radar.TX1 || chirps[1].TxEnable != radar.TX2 {
		t.Errorf("unexpected default chirps %+v", chirps)
	}
	if f := cfg.GetFrame(); f.NumLoops != 64 || f.PeriodMs() != 50 {
		t.Errorf("unexpected default frame %+v", f)
	}
}

func TestLoadExampleConfigFile(t *testing.T) {
	cfg, err := LoadDeviceConfig(filepath.Join("..", "..", ExampleConfigPath))
	if err != nil {
		t.Fatalf("LoadDeviceConfig(example) error: %v", err)
	}

	// The example file spells out the defaults.
	defaults := EmptyDeviceConfig()
	if diff := cmp.Diff(defaults.GetProfile(), cfg.GetProfile()); diff != "" {
		t.Errorf("profile mismatch (-default +example):\n%s", diff)
	}
	if diff := cmp.Diff(defaults.GetChirps(), cfg.GetChirps()); diff != "" {
		t.Errorf("chirps mismatch (-default +example):\n%s", diff)
	}
	if diff := cmp.Diff(defaults.GetFrame(), cfg.GetFrame()); diff != "" {
		t.Errorf("frame mismatch (-default +example):\n%s", diff)
	}
	if diff := cmp.Diff(defaults.ControllerOptions(), cfg.ControllerOptions()); diff != "" {
		t.Errorf("options mismatch (-default +example):\n%s", diff)
	}
}

func TestLoadDeviceConfigJSON(t *testing.T) {
	path := writeConfig(t, "radar.json", `{
  "command_port": "/dev/ttyUSB0",
  "response_timeout": "250ms",
  "packet_size": 512,
  "frames": 10,
  "chirps": [
    {"chirp_id": 0, "profile_id": 0, "start_idx": 0, "end_idx": 3, "tx_enable": 7}
  ]
}`)

	cfg, err := LoadDeviceConfig(path)
	if err != nil {
		t.Fatalf("LoadDeviceConfig error: %v", err)
	}
	if got := cfg.GetCommandPort(); got != "/dev/ttyUSB0" {
		t.Errorf("GetCommandPort() = %q", got)
	}
	if got := cfg.GetDataPort(); got != "/dev/ttyACM1" {
		t.Errorf("GetDataPort() = %q, want default", got)
	}
	opts := cfg.ControllerOptions()
	if opts.ResponseTimeout != 250*time.Millisecond || opts.PacketSize != 512 {
		t.Errorf("unexpected controller options %+v", opts)
	}
	if got := cfg.GetFrames(); got != 10 {
		t.Errorf("GetFrames() = %d, want 10", got)
	}
	want := []radar.ChirpConfig{{ChirpID: 0, ProfileID: 0, StartIdx: 0, EndIdx: 3, TxEnable: radar.TX1 | radar.TX2 | radar.TX3}}
	if diff := cmp.Diff(want, cfg.GetChirps()); diff != "" {
		t.Errorf("chirps mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDeviceConfigYAML(t *testing.T) {
	path := writeConfig(t, "radar.yml", `
data_port: /dev/ttyUSB1
data_serial:
  baud_rate: 460800
  parity: even
frame:
  chirp_start_idx: 0
  chirp_end_idx: 0
  num_loops: 16
  num_frames: 8
  period_usec: 100000
`)

	cfg, err := LoadDeviceConfig(path)
	if err != nil {
		t.Fatalf("LoadDeviceConfig error: %v", err)
	}
	conn := cfg.SerialConnector()
	if conn.DataPath != "/dev/ttyUSB1" || conn.DataOptions.BaudRate != 460800 {
		t.Errorf("unexpected connector %+v", conn)
	}
	if conn.CommandOptions.BaudRate != transport.DefaultCommandBaudRate {
		t.Errorf("command baud = %d, want default", conn.CommandOptions.BaudRate)
	}
	f := cfg.GetFrame()
	if f.NumFrames != 8 || f.PeriodMs() != 100 {
		t.Errorf("unexpected frame %+v", f)
	}
}

func TestLoadDeviceConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"bad json", "a.json", `{"frames": `, "failed to parse"},
		{"bad yaml", "a.yaml", "frames: [", "failed to parse"},
		{"bad duration", "a.yaml", "packet_timeout: soon", "invalid packet_timeout"},
		{"zero duration", "a.yaml", "response_timeout: 0s", "response_timeout must be positive"},
		{"negative packet", "a.json", `{"packet_size": -1}`, "packet_size must be positive"},
		{"negative frames", "a.json", `{"frames": -2}`, "frames must be non-negative"},
		{"bad baud", "a.yaml", "command_serial:\n  parity: X", "command_serial"},
		{"bad profile", "a.yaml", "profile:\n  freq_start_ghz: 77\n  freq_end_ghz: 76\n  ramp_slope_mhz_per_usec: 50", "profile"},
		{"bad chirp", "a.yaml", "chirps:\n  - tx_enable: 8", "chirps[0]"},
		{"bad frame", "a.yaml", "frame:\n  num_loops: 0\n  period_usec: 10", "frame"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadDeviceConfig(writeConfig(t, tc.file, tc.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadDeviceConfigValidationWrapsSentinel(t *testing.T) {
	_, err := LoadDeviceConfig(writeConfig(t, "a.yaml", "chirps:\n  - end_idx: -1\n    tx_enable: 1"))
	if !errors.Is(err, radar.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestLoadDeviceConfigMissing(t *testing.T) {
	if _, err := LoadDeviceConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDeviceConfigRejectsExtension(t *testing.T) {
	path := writeConfig(t, "radar.toml", "frames = 1")
	if _, err := LoadDeviceConfig(path); err == nil {
		t.Error("expected error for .toml file")
	}
}

func TestLoadDeviceConfigRejectsLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	if err := os.WriteFile(path, make([]byte, maxFileSize+1), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadDeviceConfig(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestGetterFallbacks(t *testing.T) {
	cfg := &DeviceConfig{
		ResponseTimeout: ptrString("not-a-duration"),
		PacketTimeout:   ptrString(""),
		PacketSize:      ptrInt(2048),
		Frames:          ptrInt(0),
	}
	if got := cfg.GetResponseTimeout(); got != radar.DefaultResponseTimeout {
		t.Errorf("unparseable timeout should fall back, got %v", got)
	}
	if got := cfg.GetPacketTimeout(); got != radar.DefaultPacketTimeout {
		t.Errorf("empty timeout should fall back, got %v", got)
	}
	if got := cfg.GetPacketSize(); got != 2048 {
		t.Errorf("GetPacketSize() = %d, want 2048", got)
	}
	if got := cfg.GetFrames(); got != 0 {
		t.Errorf("GetFrames() = %d, want 0", got)
	}
}

func TestGetChirpsFollowsProfileID(t *testing.T) {
	p := EmptyDeviceConfig().GetProfile()
	p.ProfileID = 2
	cfg := &DeviceConfig{Profile: &p}
	for _, c := range cfg.GetChirps() {
		if c.ProfileID != 2 {
			t.Errorf("default chirp %d references profile %d, want 2", c.ChirpID, c.ProfileID)
		}
	}
}
