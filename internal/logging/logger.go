// Package logging is the process-wide structured logger. Until Init is
// called every helper is a no-op, so library packages may log freely.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance
var Logger *log.Logger

// Init directs logging to w at the named level (debug, info, warn, error).
func Init(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
	return nil
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
