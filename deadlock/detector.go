// Package deadlock implements the wait-for-graph watchdog spec.md §4.6 /
// §4.8 describes: it subscribes to hooks.ThreadProfile's before/after
// lock events, maintains a directed wait-for graph keyed by goroutine
// identity, and periodically searches it for cycles, logging
// hooks.LogCritical when it finds one. The detector is advisory only —
// it never aborts the process or changes lock behavior.
package deadlock

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cumines-foundry/fabricrt/hooks"
	"github.com/joeycumines/go-catrate"
)

// Detector maintains the wait-for graph and runs the periodic cycle
// search. Construct with NewDetector; stop with Close.
type Detector struct {
	mu      sync.Mutex
	waitFor map[uint64]lockEdge                // goroutine -> lock it is blocked on
	owners  map[hooks.LockHandle]map[uint64]struct{} // lock -> holder goroutine(s)
	names   map[uint64]string                  // goroutine -> diagnostic name, best-effort
	lockNames map[hooks.LockHandle]string

	previous hooks.ThreadProfile // the table installed before NewDetector, chained through

	limiter *catrate.Limiter

	ticker *time.Ticker
	done   chan struct{}
	stop_  chan struct{}
}

type lockEdge struct {
	lock hooks.LockHandle
	kind hooks.LockKind
}

// NewDetector installs a chained hooks.ThreadProfile table — composing
// with whatever table is already installed rather than replacing it, per
// spec.md §4.3's composability requirement — and starts a goroutine that
// searches the wait-for graph every tick for cycles.
func NewDetector(tick time.Duration) *Detector {
	if tick <= 0 {
		tick = time.Second
	}
	d := &Detector{
		waitFor:   map[uint64]lockEdge{},
		owners:    map[hooks.LockHandle]map[uint64]struct{}{},
		names:     map[uint64]string{},
		lockNames: map[hooks.LockHandle]string{},
		// A persistent deadlock is rediscovered every tick; throttle to
		// at most one critical log per distinct cycle (keyed by its
		// sorted thread names) every 5s so it doesn't flood the log.
		limiter: catrate.NewLimiter(map[time.Duration]int{5 * time.Second: 1}),
		ticker:  time.NewTicker(tick),
		done:    make(chan struct{}),
		stop_:   make(chan struct{}),
	}

	d.previous = hooks.ThreadProfileSet(hooks.ThreadProfile{
		ThreadNew: func(handle hooks.ThreadHandle, name string) {
			d.recordName(currentGoroutineID(), name)
			if d.previous.ThreadNew != nil {
				d.previous.ThreadNew(handle, name)
			}
		},
		MutexNew: func(handle hooks.LockHandle, name string) any {
			d.recordLock(handle, name)
			if d.previous.MutexNew != nil {
				return d.previous.MutexNew(handle, name)
			}
			return nil
		},
		MutexFree: func(handle hooks.LockHandle, userData any) {
			d.forgetLock(handle)
			if d.previous.MutexFree != nil {
				d.previous.MutexFree(handle, userData)
			}
		},
		BeforeLock: func(handle hooks.LockHandle, userData any, kind hooks.LockKind) bool {
			d.beforeLock(handle, kind)
			if d.previous.BeforeLock != nil {
				return d.previous.BeforeLock(handle, userData, kind)
			}
			return true
		},
		AfterLock: func(handle hooks.LockHandle, userData any, kind hooks.LockKind) {
			d.afterLock(handle, kind)
			if d.previous.AfterLock != nil {
				d.previous.AfterLock(handle, userData, kind)
			}
		},
		AfterUnlock: func(handle hooks.LockHandle, userData any, kind hooks.LockKind) {
			d.afterUnlock(handle, kind)
			if d.previous.AfterUnlock != nil {
				d.previous.AfterUnlock(handle, userData, kind)
			}
		},
	})

	go d.loop()
	return d
}

// Close stops the periodic cycle search and restores whatever
// hooks.ThreadProfile table was installed before NewDetector. Composing
// detectors (or other ThreadProfile consumers) are expected to Close in
// reverse construction order, the same discipline every hooks *Set
// chaining function assumes.
func (d *Detector) Close() {
	close(d.stop_)
	<-d.done
	d.ticker.Stop()
	hooks.ThreadProfileSet(d.previous)
}

func (d *Detector) recordName(goroutine uint64, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names[goroutine] = name
}

func (d *Detector) recordLock(handle hooks.LockHandle, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lockNames[handle] = name
}

func (d *Detector) forgetLock(handle hooks.LockHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.owners, handle)
	delete(d.lockNames, handle)
}

func (d *Detector) beforeLock(lock hooks.LockHandle, kind hooks.LockKind) {
	goroutine := currentGoroutineID()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.waitFor[goroutine] = lockEdge{lock: lock, kind: kind}
}

func (d *Detector) afterLock(lock hooks.LockHandle, kind hooks.LockKind) {
	goroutine := currentGoroutineID()
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.waitFor, goroutine)
	set := d.owners[lock]
	if set == nil {
		set = map[uint64]struct{}{}
		d.owners[lock] = set
	}
	if kind == hooks.LockExclusive {
		for g := range set {
			delete(set, g)
		}
	}
	set[goroutine] = struct{}{}
}

func (d *Detector) afterUnlock(lock hooks.LockHandle, kind hooks.LockKind) {
	goroutine := currentGoroutineID()
	d.mu.Lock()
	defer d.mu.Unlock()
	if set := d.owners[lock]; set != nil {
		delete(set, goroutine)
		if len(set) == 0 {
			delete(d.owners, lock)
		}
	}
}

func (d *Detector) loop() {
	defer close(d.done)
	for {
		select {
		case <-d.stop_:
			return
		case <-d.ticker.C:
			d.scan()
		}
	}
}

// scan takes a consistent snapshot of the wait-for graph and lock
// ownership, then runs a DFS cycle search over the snapshot — the
// snapshot keeps the search itself lock-free, at the cost of it possibly
// being a tick stale, which is within spec.md §4.8's tolerance.
func (d *Detector) scan() {
	d.mu.Lock()
	waitFor := make(map[uint64]lockEdge, len(d.waitFor))
	for k, v := range d.waitFor {
		waitFor[k] = v
	}
	owners := make(map[hooks.LockHandle][]uint64, len(d.owners))
	for lock, set := range d.owners {
		for g := range set {
			owners[lock] = append(owners[lock], g)
		}
	}
	names := make(map[uint64]string, len(d.names))
	for k, v := range d.names {
		names[k] = v
	}
	lockNames := make(map[hooks.LockHandle]string, len(d.lockNames))
	for k, v := range d.lockNames {
		lockNames[k] = v
	}
	d.mu.Unlock()

	for cycle := range findCycles(waitFor, owners) {
		d.reportCycle(cycle, waitFor, names, lockNames)
	}
}

func (d *Detector) reportCycle(cycle []uint64, waitFor map[uint64]lockEdge, names map[uint64]string, lockNames map[hooks.LockHandle]string) {
	threadNames := make([]string, 0, len(cycle))
	lockSet := map[string]struct{}{}
	for _, g := range cycle {
		threadNames = append(threadNames, threadLabel(g, names))
		if edge, ok := waitFor[g]; ok {
			lockSet[lockNames[edge.lock]] = struct{}{}
		}
	}
	sort.Strings(threadNames)

	if _, ok := d.limiter.Allow(strings.Join(threadNames, ",")); !ok {
		return
	}

	lockList := make([]string, 0, len(lockSet))
	for name := range lockSet {
		lockList = append(lockList, name)
	}
	sort.Strings(lockList)

	hooks.LogCritical(fmt.Sprintf(
		"deadlock: cycle detected among threads [%s] waiting on locks [%s]",
		strings.Join(threadNames, ", "), strings.Join(lockList, ", "),
	))
}

func threadLabel(goroutine uint64, names map[uint64]string) string {
	if name, ok := names[goroutine]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("goroutine-%d", goroutine)
}
