package rtcontext

import "github.com/joeycumines/goroutineid"

// currentID returns a stable identifier for the calling goroutine, used
// to key the Context registry. It is the sole call site that assumes
// goroutineid's API shape, so if that shape ever drifts, only this file
// needs to change.
func currentID() uint64 {
	return goroutineid.Get()
}
