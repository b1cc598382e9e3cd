package hooks

import "sync/atomic"

// LockKind distinguishes which bracket a mutex hook call belongs to, so
// a single table can be installed for both Mutex and RWMutex.
type LockKind int

const (
	// LockExclusive denotes a plain Mutex, or an RWMutex held for write.
	LockExclusive LockKind = iota
	// LockShared denotes an RWMutex held for read.
	LockShared
)

// ThreadProfile is the multi-threading hook table. Handle and Lock are
// opaque identities: stable for the lifetime of the Thread/Mutex/RWMutex
// they name, and distinguishable even when two primitives share a name
// (spec.md §9: "both identities must be... distinguishable across equal
// names").
type ThreadProfile struct {
	// ThreadNew is called once, on the new thread itself, just before its
	// body runs.
	ThreadNew func(handle ThreadHandle, name string)

	// MutexNew is called at construction and may return an opaque
	// user-data value carried to every subsequent call for this lock.
	MutexNew func(handle LockHandle, name string) any
	// MutexFree is called at teardown.
	MutexFree func(handle LockHandle, userData any)
	// BeforeLock is called just before attempting to acquire. Its bool
	// return is advisory only — the acquire is always attempted
	// regardless of the return value; it exists so a deadlock detector
	// can distinguish "about to maybe block" from "definitely fine".
	BeforeLock func(handle LockHandle, userData any, kind LockKind) bool
	// AfterLock is called immediately after a successful acquire.
	AfterLock func(handle LockHandle, userData any, kind LockKind)
	// AfterUnlock is called immediately after a release.
	AfterUnlock func(handle LockHandle, userData any, kind LockKind)
}

// ThreadHandle is an opaque, comparable identity for a Thread.
type ThreadHandle struct{ id uint64 }

// LockHandle is an opaque, comparable identity for a Mutex or RWMutex.
type LockHandle struct{ id uint64 }

var (
	threadIDs atomic.Uint64
	lockIDs   atomic.Uint64
)

// NewThreadHandle allocates a fresh, process-unique ThreadHandle.
func NewThreadHandle() ThreadHandle { return ThreadHandle{id: threadIDs.Add(1)} }

// NewLockHandle allocates a fresh, process-unique LockHandle.
func NewLockHandle() LockHandle { return LockHandle{id: lockIDs.Add(1)} }

var threadProfile atomic.Pointer[ThreadProfile]

// ThreadProfileSet installs new as the current thread profiling table
// and returns the previous one. Composing detectors (deadlock.Detector)
// must chain the previous table's functions rather than overwrite them,
// since only one table is live at a time.
func ThreadProfileSet(new ThreadProfile) ThreadProfile {
	old := threadProfile.Swap(&new)
	if old == nil {
		return ThreadProfile{}
	}
	return *old
}

// ReportThreadNew invokes the installed ThreadNew hook, if any.
func ReportThreadNew(handle ThreadHandle, name string) {
	t := threadProfile.Load()
	if t == nil || t.ThreadNew == nil {
		return
	}
	defer recoverHook()
	t.ThreadNew(handle, name)
}

// ReportMutexNew invokes the installed MutexNew hook, if any, returning
// its user-data value (nil if no hook is installed).
func ReportMutexNew(handle LockHandle, name string) (userData any) {
	t := threadProfile.Load()
	if t == nil || t.MutexNew == nil {
		return nil
	}
	defer recoverHook()
	return t.MutexNew(handle, name)
}

// ReportMutexFree invokes the installed MutexFree hook, if any.
func ReportMutexFree(handle LockHandle, userData any) {
	t := threadProfile.Load()
	if t == nil || t.MutexFree == nil {
		return
	}
	defer recoverHook()
	t.MutexFree(handle, userData)
}

// ReportBeforeLock invokes the installed BeforeLock hook, if any. Its
// result is advisory; callers must not change acquire behavior based on
// it, per spec.md §4.4.
func ReportBeforeLock(handle LockHandle, userData any, kind LockKind) (advice bool) {
	t := threadProfile.Load()
	if t == nil || t.BeforeLock == nil {
		return true
	}
	defer recoverHook()
	return t.BeforeLock(handle, userData, kind)
}

// ReportAfterLock invokes the installed AfterLock hook, if any.
func ReportAfterLock(handle LockHandle, userData any, kind LockKind) {
	t := threadProfile.Load()
	if t == nil || t.AfterLock == nil {
		return
	}
	defer recoverHook()
	t.AfterLock(handle, userData, kind)
}

// ReportAfterUnlock invokes the installed AfterUnlock hook, if any.
func ReportAfterUnlock(handle LockHandle, userData any, kind LockKind) {
	t := threadProfile.Load()
	if t == nil || t.AfterUnlock == nil {
		return
	}
	defer recoverHook()
	t.AfterUnlock(handle, userData, kind)
}
