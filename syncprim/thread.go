// Package syncprim implements fabricrt's named thread, mutex, and
// waitgroup primitives: thin wrappers over the Go runtime's own
// concurrency primitives that additionally publish the hooks.ThreadProfile
// events spec.md §4.4 specifies around every state transition.
package syncprim

import (
	"runtime"
	"time"

	"github.com/cumines-foundry/fabricrt/hooks"
)

// Thread is a named goroutine locked to its own OS thread for the
// duration of its body, per spec.md §4.4: "a thread is constructed with
// (name, body)". Locking the OS thread is what lets rtcontext's
// goroutine-keyed registry stand in for the "per-thread" context
// spec.md assumes.
type Thread struct {
	name   string
	handle hooks.ThreadHandle
	done   chan struct{}
}

// NewThread constructs handle, publishes ThreadProfile.ThreadNew, and
// starts body running on a freshly spawned, OS-thread-locked goroutine.
// NewThread returns immediately; call Join to wait for body to return.
func NewThread(name string, body func()) *Thread {
	t := &Thread{
		name:   name,
		handle: hooks.NewThreadHandle(),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		SetOSThreadName(name)
		hooks.ReportThreadNew(t.handle, name)
		body()
	}()
	return t
}

// Join blocks until body has returned.
func (t *Thread) Join() {
	<-t.done
}

// Name returns the thread's diagnostic name.
func (t *Thread) Name() string { return t.name }

// Handle returns the thread's opaque profiling identity.
func (t *Thread) Handle() hooks.ThreadHandle { return t.handle }

// Sleep suspends the calling goroutine for d — a thin, explicitly-named
// alias for time.Sleep, kept as part of the public surface because
// spec.md §6 lists thread_sleep(ms) alongside thread_new/thread_join as
// one unit.
func Sleep(d time.Duration) {
	time.Sleep(d)
}
