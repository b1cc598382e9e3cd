package allocator

import "unsafe"

func addOffset(p unsafe.Pointer, off int) unsafe.Pointer {
	return unsafe.Add(p, off)
}
