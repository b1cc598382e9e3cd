// Package fabric implements the Fabric task dispatcher: a fixed pool of
// worker threads draining a shared FIFO queue, per spec.md §4.6.
package fabric

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cumines-foundry/fabricrt/hooks"
	"golang.org/x/sync/semaphore"
)

// timeNow is indirected for testability, matching the pattern
// catrate.Limiter uses for its own time.Now/time.NewTicker seams.
var timeNow = time.Now

// Fabric owns a fixed set of workers consuming a shared task queue. The
// zero value is not usable; construct one with New.
type Fabric struct {
	settings Settings

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []queueItem
	quit     bool
	quitOnce sync.Once

	workers  []*worker
	joinOnce sync.WaitGroup // counts normal (non-reserve) workers

	degraded atomic.Bool

	reserveSem    *semaphore.Weighted
	reserveWG     sync.WaitGroup // counts activated reserve workers
	reserveNextID atomic.Int32

	watchdog *watchdog
}

// New constructs a Fabric per settings (the zero Settings{} is valid and
// resolves every option to its documented default) and spawns its fixed
// worker pool plus its blocked-worker watchdog.
func New(settings Settings) *Fabric {
	hooks.EnsureDefault()

	settings = settings.resolve()
	f := &Fabric{settings: settings}
	f.cond = sync.NewCond(&f.mu)
	if settings.PutAsideWorkerCount > 0 {
		f.reserveSem = semaphore.NewWeighted(int64(settings.PutAsideWorkerCount))
	}

	f.workers = make([]*worker, settings.WorkerCount)
	f.joinOnce.Add(settings.WorkerCount)
	for i := range f.workers {
		w := newWorker(f, i, false)
		f.workers[i] = w
		go func() {
			defer f.joinOnce.Done()
			w.run()
		}()
	}

	f.watchdog = newWatchdog(f)
	f.watchdog.start()

	return f
}

// Go submits task to f, enqueuing it under the queue mutex and
// notifying one waiting worker. If f is nil, task runs inline on the
// calling goroutine, per spec.md §6.
func Go(f *Fabric, task Task) {
	submit(f, task, false)
}

// GoBlocking is Go's counterpart for tasks that intentionally block for
// the task's entire duration (e.g. a listener loop) — the watchdog never
// treats the worker running it as stalled, resolving the Open Question
// spec.md §9 raises about intentionally-blocking tasks.
func GoBlocking(f *Fabric, task Task) {
	submit(f, task, true)
}

func submit(f *Fabric, task Task, expectBlocking bool) {
	if task == nil {
		return
	}
	if f == nil {
		task()
		return
	}

	f.mu.Lock()
	if f.quit {
		f.mu.Unlock()
		hooks.LogWarning("fabric: Go called after Free; task dropped")
		return
	}
	f.queue = append(f.queue, queueItem{task: task, expectBlocking: expectBlocking, enqueuedAt: timeNow()})
	f.mu.Unlock()
	f.cond.Signal()
}

// dequeue blocks until a task is available or the fabric is quitting, in
// which case it returns ok == false even if the queue is still
// non-empty: once quit is set, a worker stops picking up new work of its
// own accord, leaving whatever remains for Free to drop or run per
// settings.DrainOnQuit (spec.md §4.7's Draining state is Free's
// responsibility, not a worker's). It is only ever called by a worker's
// own run loop.
func (f *Fabric) dequeue(w *worker) (queueItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.setState(stateDequeuing)
	for len(f.queue) == 0 && !f.quit {
		f.cond.Wait()
	}
	if f.quit || len(f.queue) == 0 {
		return queueItem{}, false
	}
	item := f.queue[0]
	f.queue = f.queue[1:]
	return item, true
}

// Free signals every worker to quit, broadcasts the not_empty condition,
// joins every normal worker, stops the watchdog (which guarantees no
// further reserve worker can be activated), joins every reserve worker
// activated during the fabric's lifetime, then drains the remaining
// queue: dropping every unexecuted task (the default) or running each
// on the caller, per settings.DrainOnQuit. Free must not be called from
// a task running on f's own fabric (spec.md §9: this is a programming
// error — Free would block joining the very worker that is trying to
// call it).
func (f *Fabric) Free() {
	f.quitOnce.Do(func() {
		f.mu.Lock()
		f.quit = true
		f.mu.Unlock()
		f.cond.Broadcast()
	})

	f.joinOnce.Wait()
	f.watchdog.stop()
	f.reserveWG.Wait()

	f.mu.Lock()
	remaining := f.queue
	f.queue = nil
	f.mu.Unlock()

	if f.settings.DrainOnQuit {
		for _, item := range remaining {
			item.task()
		}
	} else if len(remaining) > 0 {
		hooks.LogInfo(fmt.Sprintf("fabric: dropped %d unexecuted task(s) on shutdown", len(remaining)))
	}
}

// Degraded reports whether any worker has panicked out of a task. The
// fabric keeps operating with its remaining workers (spec.md §7); this
// is purely observability for callers who want to detect the condition.
func (f *Fabric) Degraded() bool {
	return f.degraded.Load()
}

