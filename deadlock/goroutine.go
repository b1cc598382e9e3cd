package deadlock

import "github.com/joeycumines/goroutineid"

// currentGoroutineID identifies the calling goroutine for wait-for graph
// bookkeeping. Mirrors rtcontext.currentID and syncprim.currentGoroutineID
// — each package keeps its own tiny wrapper so a future change to
// goroutineid's API surface is localized.
func currentGoroutineID() uint64 {
	return goroutineid.Get()
}
