package fabric

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWatchdog_ActivatesReserveWhenWorkerStalls covers spec.md §4.6's
// blocked-worker replacement: a single-worker fabric with a reserve of
// 1 keeps draining its queue once the watchdog notices the lone worker
// has sat on one task past the threshold.
func TestWatchdog_ActivatesReserveWhenWorkerStalls(t *testing.T) {
	f := New(Settings{
		WorkerCount:              1,
		PutAsideWorkerCount:      1,
		BlockingWorkersThreshold: 20 * time.Millisecond,
	})
	defer f.Free()

	block := make(chan struct{})
	Go(f, func() { <-block }) // occupies the only normal worker indefinitely

	var ran atomic.Bool
	done := make(chan struct{})
	Go(f, func() {
		ran.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reserve worker never drained the queue behind the stalled worker")
	}
	assert.True(t, ran.Load())

	close(block)
}

// TestWatchdog_GoBlockingIsNeverConsideredStalled covers the
// ExpectBlocking resolution of spec.md §9's open question: a
// GoBlocking task never triggers reserve activation, even past the
// threshold.
func TestWatchdog_GoBlockingIsNeverConsideredStalled(t *testing.T) {
	f := New(Settings{
		WorkerCount:              1,
		PutAsideWorkerCount:      1,
		BlockingWorkersThreshold: 10 * time.Millisecond,
	})

	block := make(chan struct{})
	GoBlocking(f, func() { <-block })

	time.Sleep(100 * time.Millisecond)

	f.mu.Lock()
	reserveActivated := len(f.workers) > 1
	f.mu.Unlock()
	assert.False(t, reserveActivated, "GoBlocking task must never trigger reserve-worker activation")

	close(block)
	f.Free()
}

// TestWatchdog_FreeJoinsReserveWorkerStillRunning covers spec.md:104 and
// spec.md:129 (fabric_free blocks until every worker, including any
// activated reserve worker, finishes its in-flight task) for the case a
// naive Free implementation misses: a reserve worker that is still
// executing its task when Free is called must be joined, not abandoned.
func TestWatchdog_FreeJoinsReserveWorkerStillRunning(t *testing.T) {
	f := New(Settings{
		WorkerCount:              1,
		PutAsideWorkerCount:      1,
		BlockingWorkersThreshold: 20 * time.Millisecond,
	})

	stallBlock := make(chan struct{})
	Go(f, func() { <-stallBlock }) // stalls the only normal worker until released

	reserveBlock := make(chan struct{})
	var reserveRan atomic.Bool
	reserveStarted := make(chan struct{})
	Go(f, func() {
		close(reserveStarted)
		<-reserveBlock
		reserveRan.Store(true)
	})

	// Wait for the watchdog to activate a reserve worker and for it to
	// actually begin running the second task.
	select {
	case <-reserveStarted:
	case <-time.After(time.Second):
		t.Fatal("reserve worker never started its task")
	}

	freed := make(chan struct{})
	go func() {
		defer close(freed)
		f.Free()
	}()

	// Release the stalled normal worker so Free can join it; Free must
	// still not return while the reserve worker is blocked inside its
	// task.
	close(stallBlock)
	select {
	case <-freed:
		t.Fatal("Free returned before its in-flight reserve worker task completed")
	case <-time.After(100 * time.Millisecond):
	}

	close(reserveBlock)

	select {
	case <-freed:
	case <-time.After(time.Second):
		t.Fatal("Free did not return after its reserve worker's task completed")
	}
	assert.True(t, reserveRan.Load())
}

// TestWatchdog_NoReserveConfiguredNeverActivates asserts that, absent a
// configured PutAsideWorkerCount, a stalled worker is logged but no
// reserve worker is spawned (there being none to spawn).
func TestWatchdog_NoReserveConfiguredNeverActivates(t *testing.T) {
	f := New(Settings{
		WorkerCount:              1,
		BlockingWorkersThreshold: 10 * time.Millisecond,
	})

	block := make(chan struct{})
	Go(f, func() { <-block })

	time.Sleep(100 * time.Millisecond)

	f.mu.Lock()
	workerCount := len(f.workers)
	f.mu.Unlock()
	require.Equal(t, 1, workerCount)

	close(block)
	f.Free()
}
