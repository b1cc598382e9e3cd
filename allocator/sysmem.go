package allocator

import "github.com/pbnjay/memory"

// SystemMemory returns the total physical memory available to the
// process's host, or 0 if it could not be determined. It exists purely
// for the diagnostic check rtcontext.Init performs before sizing a
// Context's scratch arena — it never gates or limits an allocation.
func SystemMemory() uint64 {
	return memory.TotalMemory()
}
