package fabric

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
)

// Settings configures Fabric construction. The zero value is valid and
// resolves every field to its documented default, per spec.md §4.6's
// table.
type Settings struct {
	// WorkerCount is the number of OS threads the fabric spawns. Zero
	// means: use the FABRICRT_WORKER_COUNT environment variable if it
	// parses as a positive integer, else runtime.GOMAXPROCS(0) (itself
	// adjusted once per process by automaxprocsOnce to respect a
	// container's CPU quota).
	WorkerCount int

	// Name prefixes every worker thread's diagnostic name.
	Name string

	// AfterEachJob, if non-nil, runs on the worker thread between tasks.
	AfterEachJob func()

	// PutAsideWorkerCount bounds how many reserve workers may be
	// activated to keep the queue draining while a worker is stalled.
	PutAsideWorkerCount int

	// BlockingWorkersThreshold is how long a worker may sit on the same
	// task before the watchdog considers it stalled.
	BlockingWorkersThreshold time.Duration

	// DrainOnQuit, if true, causes Free to run every queued task (on the
	// calling goroutine) rather than drop it. Defaults to false, per
	// spec.md §4.7.
	DrainOnQuit bool
}

const defaultBlockingThreshold = 10 * time.Second

var automaxprocsOnce = func() func() {
	var undo func()
	return func() {
		if undo != nil {
			return
		}
		u, err := maxprocs.Set()
		if err != nil {
			u = func() {}
		}
		undo = u
	}
}()

func (s Settings) resolve() Settings {
	automaxprocsOnce()

	if s.WorkerCount == 0 {
		if v := os.Getenv("FABRICRT_WORKER_COUNT"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				s.WorkerCount = n
			}
		}
	}
	if s.WorkerCount == 0 {
		s.WorkerCount = runtime.GOMAXPROCS(0)
	}
	if s.WorkerCount < 1 {
		s.WorkerCount = 1
	}
	if s.Name == "" {
		s.Name = "fabric"
	}
	if s.BlockingWorkersThreshold == 0 {
		s.BlockingWorkersThreshold = defaultBlockingThreshold
	}
	return s
}
