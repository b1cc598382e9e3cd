package hooks

import "sync/atomic"

// Log is the hook table for unified logging. Any absent function is a
// no-op; the table composes with whatever sink a caller wires in via
// LogSet or NewLogifaceSink.
type Log struct {
	Debug    func(msg string)
	Info     func(msg string)
	Warning  func(msg string)
	Error    func(msg string)
	Critical func(msg string)
}

var logTable atomic.Pointer[Log]

// LogSet installs new as the current log table and returns the previous
// one.
func LogSet(new Log) Log {
	old := logTable.Swap(&new)
	if old == nil {
		return Log{}
	}
	return *old
}

func logDebug(msg string)    { call(func(t *Log) func(string) { return t.Debug }, msg) }
func logInfo(msg string)     { call(func(t *Log) func(string) { return t.Info }, msg) }
func logWarning(msg string)  { call(func(t *Log) func(string) { return t.Warning }, msg) }
func logError(msg string)    { call(func(t *Log) func(string) { return t.Error }, msg) }
func logCritical(msg string) { call(func(t *Log) func(string) { return t.Critical }, msg) }

// LogDebug invokes the installed Debug hook, if any.
func LogDebug(msg string) { logDebug(msg) }

// LogInfo invokes the installed Info hook, if any.
func LogInfo(msg string) { logInfo(msg) }

// LogWarning invokes the installed Warning hook, if any.
func LogWarning(msg string) { logWarning(msg) }

// LogError invokes the installed Error hook, if any.
func LogError(msg string) { logError(msg) }

// LogCritical invokes the installed Critical hook, if any. The deadlock
// detector and the fabric's worker-panic path are the two callers
// that matter for spec.md's observability contract.
func LogCritical(msg string) { logCritical(msg) }

func call(pick func(*Log) func(string), msg string) {
	t := logTable.Load()
	if t == nil {
		return
	}
	fn := pick(t)
	if fn == nil {
		return
	}
	defer recoverHook()
	fn(msg)
}
