package syncprim

import "github.com/joeycumines/goroutineid"

// currentGoroutineID identifies the calling goroutine for the owner
// bookkeeping Mutex and RWMutex use to detect non-owner unlocks. It is
// a diagnostic only — correctness of the underlying lock never depends
// on it.
func currentGoroutineID() uint64 {
	return goroutineid.Get()
}
