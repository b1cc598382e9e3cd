//go:build !linux

package syncprim

// SetOSThreadName is a no-op on platforms without a portable OS-thread
// naming syscall wired up; the Thread's diagnostic name is still
// available via Thread.Name and every hooks.ThreadProfile event.
func SetOSThreadName(string) {}
