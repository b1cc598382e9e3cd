package rtcontext

import "github.com/cumines-foundry/fabricrt/allocator"

// Top returns the top of the calling goroutine's allocator stack — the
// clib allocator, if the stack was never pushed.
func Top() allocator.Allocator {
	ctx := mustCurrent()
	return ctx.allocatorStack[ctx.stackDepth-1]
}

// Push installs a as the new top of the calling goroutine's allocator
// stack. It panics if the stack is already at capacity (programming
// error, per spec.md §3's invariant that depth never exceeds 1024).
func Push(a allocator.Allocator) {
	ctx := mustCurrent()
	if ctx.stackDepth >= allocatorStackCapacity {
		panic("rtcontext: allocator stack exhausted")
	}
	ctx.allocatorStack[ctx.stackDepth] = a
	ctx.stackDepth++
}

// Pop removes the top of the calling goroutine's allocator stack. It
// panics if the stack is already at its base (the clib allocator is not
// poppable, per spec.md §3).
func Pop() {
	ctx := mustCurrent()
	if ctx.stackDepth <= 1 {
		panic("rtcontext: cannot pop the base allocator")
	}
	ctx.allocatorStack[ctx.stackDepth-1] = nil
	ctx.stackDepth--
}

// Depth reports the calling goroutine's current allocator stack depth,
// primarily useful for tests asserting balanced Push/Pop sequences.
func Depth() int {
	ctx := mustCurrent()
	return ctx.stackDepth
}
