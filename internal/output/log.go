// Package output provides the module's single structured logging surface.
//
// Every component accepts a *Logger rather than reaching for a global —
// constructors take one in, tests pass a discard logger, and the CLI wires
// the real one at startup.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger wraps charmbracelet/log; Scoped children carry a fixed
// "component" field.
type Logger struct {
	l *log.Logger
}

// Config controls verbosity and formatting for the process-wide logger.
type Config struct {
	// Verbose enables debug-level logging and caller reporting.
	Verbose bool

	// Writer is the destination stream. Defaults to os.Stderr when nil.
	Writer io.Writer
}

// New builds a root Logger from cfg.
func New(cfg Config) *Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05.000",
	})
	return &Logger{l: l}
}

// Discard returns a Logger that writes nowhere, for tests.
func Discard() *Logger {
	l := log.NewWithOptions(io.Discard, log.Options{})
	return &Logger{l: l}
}

// Scoped returns a child logger with name attached as its "component" field.
func (lg *Logger) Scoped(name string) *Logger {
	if lg == nil {
		return Discard().Scoped(name)
	}
	return &Logger{l: lg.l.With("component", name)}
}

func (lg *Logger) Debug(msg string, kv ...interface{}) {
	if lg == nil {
		return
	}
	lg.l.Debug(msg, kv...)
}

func (lg *Logger) Info(msg string, kv ...interface{}) {
	if lg == nil {
		return
	}
	lg.l.Info(msg, kv...)
}

func (lg *Logger) Warn(msg string, kv ...interface{}) {
	if lg == nil {
		return
	}
	lg.l.Warn(msg, kv...)
}

func (lg *Logger) Error(msg string, kv ...interface{}) {
	if lg == nil {
		return
	}
	lg.l.Error(msg, kv...)
}
