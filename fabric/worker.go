package fabric

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cumines-foundry/fabricrt/hooks"
	"github.com/cumines-foundry/fabricrt/rtcontext"
	"github.com/cumines-foundry/fabricrt/syncprim"
)

// workerState enumerates the worker state machine from spec.md §4.7.
type workerState int32

const (
	stateIdle workerState = iota
	stateDequeuing
	stateExecuting
	stateDraining
	stateStopped
)

// worker is one OS thread inside a Fabric, repeatedly dequeuing and
// executing tasks until the fabric quits.
type worker struct {
	id    int
	name  string
	f     *Fabric
	state atomic.Int32

	// currentTaskStart is the UnixNano time the worker began its current
	// task, or 0 when idle. Read by the watchdog without synchronization
	// beyond the atomic store/load — a stale read only delays stall
	// detection by at most one tick, which is within spec.md §4.6's
	// "samples... at ≥ once per threshold" contract.
	currentTaskStart atomic.Int64
	expectBlocking   atomic.Bool

	// reserve is true for a put-aside worker activated by the watchdog;
	// it does not count toward the fabric's normal WorkerCount join set.
	reserve bool

	stopped chan struct{}
}

func newWorker(f *Fabric, id int, reserve bool) *worker {
	w := &worker{
		id:      id,
		name:    fmt.Sprintf("%s-%d", f.settings.Name, id),
		f:       f,
		reserve: reserve,
		stopped: make(chan struct{}),
	}
	return w
}

func (w *worker) setState(s workerState) { w.state.Store(int32(s)) }
func (w *worker) getState() workerState  { return workerState(w.state.Load()) }

func (w *worker) run() {
	defer close(w.stopped)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	syncprim.SetOSThreadName(w.name)

	ctx := rtcontext.Init()
	defer rtcontext.Free(ctx)

	for {
		w.setState(stateIdle)
		item, ok := w.f.dequeue(w)
		if !ok {
			w.setState(stateStopped)
			return
		}

		w.setState(stateExecuting)
		w.currentTaskStart.Store(time.Now().UnixNano())
		w.expectBlocking.Store(item.expectBlocking)

		w.runTask(item.task)

		w.currentTaskStart.Store(0)
		if w.f.settings.AfterEachJob != nil {
			w.f.settings.AfterEachJob()
		}
	}
}

// runTask executes task, recovering a panic exactly once: it logs
// critical, marks the fabric degraded, and — per spec.md §4.7 — this
// worker exits its loop permanently rather than rejoining rotation,
// since a goroutine that has panicked out of arbitrary stack depth
// cannot be trusted to resume its own dequeue loop cleanly.
func (w *worker) runTask(task Task) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			w.f.degraded.Store(true)
			hooks.LogCritical(fmt.Sprintf("fabric: worker %q panicked: %v", w.name, r))
			w.setState(stateStopped)
			// Goexit unwinds through run()'s deferred cleanup (context
			// teardown, close(w.stopped)) without resuming the dequeue
			// loop — the worker is gone for good, per spec.md §4.7.
			runtime.Goexit()
		}
	}()
	task()
	return false
}
