//go:build fabricrt_debug

package syncprim

import "github.com/cumines-foundry/fabricrt/hooks"

// reportUnownedUnlock enforces spec.md §7's programming-error policy in
// debug builds: "assert in debug". Release builds (debug_release.go's
// counterpart) only report the violation via the Error log hook.
func reportUnownedUnlock(msg string) {
	hooks.LogError(msg)
	panic(msg)
}
