package hooks

import (
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// NewLogifaceSink adapts a logiface logger into a Log table, mapping
// fabricrt's five levels onto the nearest logiface syslog levels. It is
// the default table fabric.New installs if the caller has not already
// called LogSet themselves.
func NewLogifaceSink(logger *logiface.Logger[*stumpy.Event]) Log {
	return Log{
		Debug:    func(msg string) { logger.Debug().Log(msg) },
		Info:     func(msg string) { logger.Info().Log(msg) },
		Warning:  func(msg string) { logger.Warning().Log(msg) },
		Error:    func(msg string) { logger.Err().Log(msg) },
		Critical: func(msg string) { logger.Crit().Log(msg) },
	}
}

// DefaultLogifaceLogger constructs the stumpy-backed logiface logger
// fabricrt falls back to: JSON lines on stderr, at LevelDebug so every
// hook event this package emits is visible unless a caller narrows it.
func DefaultLogifaceLogger() *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(
		stumpy.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	)
}

// EnsureDefault installs DefaultLogifaceLogger's sink if no Log table has
// been installed yet. Any table installed through LogSet, including the
// zero-value Log{}, counts as installed, so repeated calls are no-ops
// after the first.
func EnsureDefault() {
	if logTable.Load() != nil {
		return
	}
	LogSet(NewLogifaceSink(DefaultLogifaceLogger()))
}
