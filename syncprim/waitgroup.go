package syncprim

import "sync"

// Waitgroup is a counter-based barrier, per spec.md §3/§4.5. Unlike
// sync.WaitGroup, it is explicitly safe to Add again after Wait has
// returned (spec.md §4.5: "safe to reuse after wait() returns") — there
// is no "Add after Wait observed zero, from a different goroutine" race
// to avoid, since every Add/Wait interaction here goes through the same
// mutex.
type Waitgroup struct {
	mu      sync.Mutex
	cond    *sync.Cond
	counter int
}

// NewWaitgroup constructs a zero-counter Waitgroup.
func NewWaitgroup() *Waitgroup {
	wg := &Waitgroup{}
	wg.cond = sync.NewCond(&wg.mu)
	return wg
}

// Add adjusts the counter by n, broadcasting to any waiters if the
// counter transitions to zero. It panics if the result would be
// negative (spec.md §3: "counter never goes negative at rest").
func (wg *Waitgroup) Add(n int) {
	wg.mu.Lock()
	defer wg.mu.Unlock()
	wg.counter += n
	if wg.counter < 0 {
		panic("syncprim: waitgroup counter went negative")
	}
	if wg.counter == 0 {
		wg.cond.Broadcast()
	}
}

// Done is equivalent to Add(-1).
func (wg *Waitgroup) Done() {
	wg.Add(-1)
}

// Wait blocks until the counter reaches zero.
func (wg *Waitgroup) Wait() {
	wg.mu.Lock()
	defer wg.mu.Unlock()
	for wg.counter > 0 {
		wg.cond.Wait()
	}
}
