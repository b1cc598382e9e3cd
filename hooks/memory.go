// Package hooks implements fabricrt's profiling hook registry: three
// process-wide, atomically-swapped tables (memory, log, thread) that
// every other package in fabricrt calls into around the events spec.md
// names. A nil field in any table is a no-op; a panicking hook is
// recovered and swallowed, never propagated to the caller that triggered
// the event.
package hooks

import "sync/atomic"

// MemoryProfile is the hook table for allocation events. Its hooks run
// only through ReportAlloc and ReportFree; the allocators in package
// allocator (clib and Arena) do not call either.
type MemoryProfile struct {
	// Alloc is called by ReportAlloc.
	Alloc func(ptr uintptr, size int)
	// Free is called by ReportFree.
	Free func(ptr uintptr, size int)
}

var memoryProfile atomic.Pointer[MemoryProfile]

// MemoryProfileSet installs new as the current memory profiling table
// and returns the previous one (the zero value if none was installed),
// so callers can chain onto an existing table rather than clobber it.
func MemoryProfileSet(new MemoryProfile) MemoryProfile {
	old := memoryProfile.Swap(&new)
	if old == nil {
		return MemoryProfile{}
	}
	return *old
}

// ReportAlloc invokes the installed Alloc hook, if any, swallowing any
// panic it raises.
func ReportAlloc(ptr uintptr, size int) {
	t := memoryProfile.Load()
	if t == nil || t.Alloc == nil {
		return
	}
	defer recoverHook()
	t.Alloc(ptr, size)
}

// ReportFree invokes the installed Free hook, if any, swallowing any
// panic it raises.
func ReportFree(ptr uintptr, size int) {
	t := memoryProfile.Load()
	if t == nil || t.Free == nil {
		return
	}
	defer recoverHook()
	t.Free(ptr, size)
}

func recoverHook() {
	_ = recover()
}
