//go:build !fabricrt_debug

package syncprim

import "github.com/cumines-foundry/fabricrt/hooks"

// reportUnownedUnlock is release-mode's counterpart to debug.go: the
// violation is logged but left undefined rather than fatal, matching
// spec.md §7's "undefined in release" policy for programming errors.
func reportUnownedUnlock(msg string) {
	hooks.LogError(msg)
}
