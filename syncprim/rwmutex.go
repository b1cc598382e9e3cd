package syncprim

import (
	"sync"
	"sync/atomic"

	"github.com/cumines-foundry/fabricrt/hooks"
)

// RWMutex is a named read-write lock, mirroring Mutex's hook bracketing
// with separate read/write pairs, per spec.md §4.4. Readers are not
// tracked by identity individually — AfterLock with hooks.LockShared
// fires once per shared acquisition and is paired with exactly one
// AfterUnlock with hooks.LockShared.
type RWMutex struct {
	name     string
	handle   hooks.LockHandle
	userData any
	mu       sync.RWMutex
	writer   atomic.Uint64 // goroutine ID of the current writer, 0 if none
}

// NewRWMutex constructs a named RWMutex, publishing MutexNew.
func NewRWMutex(name string) *RWMutex {
	m := &RWMutex{name: name, handle: hooks.NewLockHandle()}
	m.userData = hooks.ReportMutexNew(m.handle, name)
	return m
}

// Name returns the lock's diagnostic name.
func (m *RWMutex) Name() string { return m.name }

// Handle returns the lock's opaque profiling identity.
func (m *RWMutex) Handle() hooks.LockHandle { return m.handle }

// RLock acquires a shared (read) lock.
func (m *RWMutex) RLock() {
	hooks.ReportBeforeLock(m.handle, m.userData, hooks.LockShared)
	m.mu.RLock()
	hooks.ReportAfterLock(m.handle, m.userData, hooks.LockShared)
}

// RUnlock releases a shared (read) lock.
func (m *RWMutex) RUnlock() {
	m.mu.RUnlock()
	hooks.ReportAfterUnlock(m.handle, m.userData, hooks.LockShared)
}

// Lock acquires the exclusive (write) lock.
func (m *RWMutex) Lock() {
	hooks.ReportBeforeLock(m.handle, m.userData, hooks.LockExclusive)
	m.mu.Lock()
	m.writer.Store(currentGoroutineID())
	hooks.ReportAfterLock(m.handle, m.userData, hooks.LockExclusive)
}

// Unlock releases the exclusive (write) lock. Unlocking from a
// non-writer goroutine is a programming error, handled the same way as
// Mutex.Unlock.
func (m *RWMutex) Unlock() {
	if m.writer.Load() != currentGoroutineID() {
		reportUnownedUnlock("syncprim: write-Unlock of rwmutex " + m.name + " by non-owner")
	}
	m.writer.Store(0)
	m.mu.Unlock()
	hooks.ReportAfterUnlock(m.handle, m.userData, hooks.LockExclusive)
}

// Free publishes MutexFree. The RWMutex must not be used afterward.
func (m *RWMutex) Free() {
	hooks.ReportMutexFree(m.handle, m.userData)
}
