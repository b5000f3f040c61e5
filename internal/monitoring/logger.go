// Package monitoring holds the process-wide diagnostic logger.
package monitoring

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Rotation limits for LogToFile.
const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
	maxLogAgeDays = 28
)

// LogToFile sends the standard logger, and so the default Logf, to a
// size-rotated file at path. Close the returned writer on shutdown.
func LogToFile(path string) io.WriteCloser {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	log.SetOutput(w)
	return w
}
