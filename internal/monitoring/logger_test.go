package monitoring

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Logf("test message: %s", "value")
	if !strings.Contains(buf.String(), "test message: value") {
		t.Errorf("default Logf did not reach the standard logger, got %q", buf.String())
	}
}

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radar.log")
	w := LogToFile(path)
	defer log.SetOutput(os.Stderr)

	log.Printf("capture started")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "capture started") {
		t.Errorf("log file missing entry, got %q", data)
	}
}
