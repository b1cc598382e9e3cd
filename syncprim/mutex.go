package syncprim

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cumines-foundry/fabricrt/hooks"
)

// Mutex is a named lock that brackets every acquire/release with
// hooks.ThreadProfile events, so a deadlock.Detector (or a test's
// recording hook) can observe lock activity without Mutex itself
// knowing anything about detection.
//
// A locked Mutex has exactly one recorded owner; unlocking from a
// goroutine that is not the recorded owner is a programming error (see
// Unlock).
type Mutex struct {
	name     string
	handle   hooks.LockHandle
	userData any
	mu       sync.Mutex
	owner    atomic.Uint64 // goroutine ID of the current holder, 0 if free
}

// NewMutex constructs a named Mutex, publishing hooks.ThreadProfile's
// MutexNew event and recording whatever user-data value the hook
// returns.
func NewMutex(name string) *Mutex {
	m := &Mutex{name: name, handle: hooks.NewLockHandle()}
	m.userData = hooks.ReportMutexNew(m.handle, name)
	return m
}

// Name returns the mutex's diagnostic name.
func (m *Mutex) Name() string { return m.name }

// Handle returns the mutex's opaque profiling identity.
func (m *Mutex) Handle() hooks.LockHandle { return m.handle }

// Lock acquires the mutex, publishing BeforeLock then AfterLock around
// the underlying acquire.
func (m *Mutex) Lock() {
	hooks.ReportBeforeLock(m.handle, m.userData, hooks.LockExclusive)
	m.mu.Lock()
	m.owner.Store(currentGoroutineID())
	hooks.ReportAfterLock(m.handle, m.userData, hooks.LockExclusive)
}

// Unlock releases the mutex, publishing AfterUnlock. Unlocking from a
// goroutine other than the recorded owner is a programming error; in
// builds tagged fabricrt_debug it panics, otherwise the release still
// proceeds (undefined-but-not-fatal, per spec.md §7).
func (m *Mutex) Unlock() {
	owner := m.owner.Load()
	current := currentGoroutineID()
	if owner != current {
		reportUnownedUnlock(fmt.Sprintf("syncprim: Unlock of mutex %q by non-owner", m.name))
	}
	m.owner.Store(0)
	m.mu.Unlock()
	hooks.ReportAfterUnlock(m.handle, m.userData, hooks.LockExclusive)
}

// Free publishes hooks.ThreadProfile's MutexFree event. The Mutex must
// not be used afterward.
func (m *Mutex) Free() {
	hooks.ReportMutexFree(m.handle, m.userData)
}
