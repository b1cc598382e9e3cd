package fabric

import "time"

// Task is a zero-argument, zero-result owned callable submitted to a
// Fabric. Ownership transfers to the Fabric on submission; the fabric
// drops its reference after execution (or, on shutdown with
// DrainOnQuit false, without ever executing it).
type Task func()

// queueItem is the internal envelope a Task travels in once enqueued: it
// carries the bookkeeping the watchdog needs (start time, whether the
// task is expected to block) without requiring Task itself to be
// anything other than a plain func().
type queueItem struct {
	task           Task
	expectBlocking bool
	enqueuedAt     time.Time
}
