package transport

import (
	"testing"

	"go.bug.st/serial"
)

func TestPortOptions_Normalize_Defaults(t *testing.T) {
	got, err := PortOptions{}.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got.BaudRate != DefaultCommandBaudRate {
		t.Errorf("BaudRate = %d, want %d", got.BaudRate, DefaultCommandBaudRate)
	}
	if got.DataBits != 8 {
		t.Errorf("DataBits = %d, want 8", got.DataBits)
	}
	if got.StopBits != 1 {
		t.Errorf("StopBits = %d, want 1", got.StopBits)
	}
	if got.Parity != "N" {
		t.Errorf("Parity = %q, want %q", got.Parity, "N")
	}
}

func TestPortOptions_Normalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts PortOptions
	}{
		{"data bits too small", PortOptions{DataBits: 4}},
		{"data bits too large", PortOptions{DataBits: 9}},
		{"stop bits", PortOptions{StopBits: 3}},
		{"parity", PortOptions{Parity: "mark"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.opts.Normalize(); err == nil {
				t.Errorf("Normalize(%+v) expected error", tt.opts)
			}
		})
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	tests := []struct {
		name       string
		opts       PortOptions
		wantParity serial.Parity
		wantStop   serial.StopBits
	}{
		{"defaults", PortOptions{}, serial.NoParity, serial.OneStopBit},
		{"even two stop", PortOptions{Parity: "even", StopBits: 2}, serial.EvenParity, serial.TwoStopBits},
		{"odd", PortOptions{Parity: "O"}, serial.OddParity, serial.OneStopBit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := tt.opts.SerialMode()
			if err != nil {
				t.Fatalf("SerialMode() error = %v", err)
			}
			if mode.Parity != tt.wantParity {
				t.Errorf("Parity = %v, want %v", mode.Parity, tt.wantParity)
			}
			if mode.StopBits != tt.wantStop {
				t.Errorf("StopBits = %v, want %v", mode.StopBits, tt.wantStop)
			}
			if mode.DataBits != 8 {
				t.Errorf("DataBits = %d, want 8", mode.DataBits)
			}
		})
	}
}

func TestPortOptions_SerialMode_Invalid(t *testing.T) {
	if _, err := (PortOptions{Parity: "X"}).SerialMode(); err == nil {
		t.Error("expected error for invalid parity")
	}
}
