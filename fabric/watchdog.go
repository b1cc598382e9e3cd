package fabric

import (
	"context"
	"fmt"
	"time"

	"github.com/cumines-foundry/fabricrt/hooks"
)

// watchdog samples every worker's current-task-start time at least once
// per BlockingWorkersThreshold, per spec.md §4.6. If a worker has been on
// the same (non-expected-blocking) task longer than the threshold and
// the put-aside reserve has spare capacity, a reserve worker is
// activated to keep the queue draining — the stalled worker is not
// pre-empted, just bypassed.
type watchdog struct {
	f      *Fabric
	ticker *time.Ticker
	cancel context.CancelFunc
	done   chan struct{}
}

func newWatchdog(f *Fabric) *watchdog {
	interval := f.settings.BlockingWorkersThreshold
	if interval <= 0 {
		interval = defaultBlockingThreshold
	}
	return &watchdog{
		f:      f,
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
}

func (wd *watchdog) start() {
	ctx, cancel := context.WithCancel(context.Background())
	wd.cancel = cancel
	go func() {
		defer close(wd.done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-wd.ticker.C:
				wd.tick()
			}
		}
	}()
}

func (wd *watchdog) stop() {
	wd.ticker.Stop()
	wd.cancel()
	<-wd.done
}

func (wd *watchdog) tick() {
	threshold := wd.f.settings.BlockingWorkersThreshold
	now := time.Now().UnixNano()

	wd.f.mu.Lock()
	workers := append([]*worker(nil), wd.f.workers...)
	wd.f.mu.Unlock()

	for _, w := range workers {
		start := w.currentTaskStart.Load()
		if start == 0 {
			continue
		}
		if w.expectBlocking.Load() {
			continue
		}
		stalled := time.Duration(now-start) > threshold
		if !stalled {
			continue
		}

		hooks.LogWarning(fmt.Sprintf("fabric: worker %q exceeded blocking threshold", w.name))
		wd.activateReserve()
	}
}

// activateReserve spawns one reserve worker if capacity allows, bounded
// by a weighted semaphore sized to PutAsideWorkerCount — the semaphore's
// weight, like the worker's own run loop, is held for the remainder of
// the Fabric's lifetime once acquired (it is only released at fabric
// shutdown, not when the stalled worker it replaced eventually finishes),
// giving the reserve pool a hard, race-free capacity limit rather than
// an ad hoc counter. The Add here is only ever called from the
// watchdog's own single goroutine, synchronously within tick — Free
// only calls reserveWG.Wait after watchdog.stop has returned, which
// guarantees no activateReserve call (and so no further Add) can still
// be in flight, so this never races a concurrent Wait.
func (wd *watchdog) activateReserve() {
	f := wd.f
	if f.reserveSem == nil {
		return
	}
	if !f.reserveSem.TryAcquire(1) {
		return // reserve pool already fully activated
	}

	id := int(f.reserveNextID.Add(1))
	w := newWorker(f, 1000+id, true)

	f.mu.Lock()
	f.workers = append(f.workers, w)
	f.mu.Unlock()

	f.reserveWG.Add(1)
	go func() {
		defer f.reserveWG.Done()
		defer f.reserveSem.Release(1)
		w.run()
	}()

	hooks.LogInfo(fmt.Sprintf("fabric: activated reserve worker %q", w.name))
}
