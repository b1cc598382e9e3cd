// Package rtcontext implements fabricrt's per-goroutine execution
// context: the allocator stack and the scratch arena spec.md §3 and §4.2
// describe, installed and retrieved without explicit parameter
// threading — the same ambient, TLS-like contract the original
// mn::Context provides, realized here via a registry keyed by goroutine
// ID (see goroutine.go) rather than a language-level thread-local.
package rtcontext

import (
	"bufio"
	"io"
	"sync"

	"github.com/cumines-foundry/fabricrt/allocator"
	"github.com/cumines-foundry/fabricrt/hooks"
)

// allocatorStackCapacity bounds the per-goroutine allocator stack, per
// spec.md §3.
const allocatorStackCapacity = 1024

// Context is per-goroutine state: the allocator stack, the scratch
// arena, and a cached scratch reader for transient parsing. It must only
// ever be accessed from the goroutine that installed it — there is no
// cross-goroutine access path, by construction.
type Context struct {
	allocatorStack [allocatorStackCapacity]allocator.Allocator
	stackDepth     int

	arena  *allocator.Arena
	reader *bufio.Reader
}

var (
	registryMu sync.Mutex
	registry   = map[uint64]*Context{}
)

// Init installs a fresh Context for the calling goroutine: allocator
// stack depth 1 with allocator.Clib() at the base, and a new 4 MiB
// scratch arena. It panics if the calling goroutine already has a
// Context installed (programming error — double Init, per spec.md §7).
func Init() *Context {
	ctx := &Context{stackDepth: 1}
	ctx.allocatorStack[0] = allocator.Clib()

	if limit := allocator.SystemMemory(); limit > 0 && uint64(allocator.DefaultArenaBlockSize)*8 > limit {
		hooks.LogWarning("rtcontext: scratch arena block size is large relative to system memory")
	}

	arena, err := allocator.NewArena(allocator.Clib(), allocator.DefaultArenaBlockSize)
	if err != nil {
		panic("rtcontext: failed to allocate scratch arena: " + err.Error())
	}
	ctx.arena = arena

	id := currentID()
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[id]; exists {
		panic("rtcontext: Init called twice on the same goroutine")
	}
	registry[id] = ctx
	return ctx
}

// Free tears down ctx's scratch arena, releasing every block back to the
// clib allocator, and removes ctx from the registry if it is the
// calling goroutine's installed Context.
func Free(ctx *Context) {
	if ctx == nil {
		return
	}
	ctx.arena.Free()

	id := currentID()
	registryMu.Lock()
	defer registryMu.Unlock()
	if registry[id] == ctx {
		delete(registry, id)
	}
}

// Current returns the calling goroutine's installed Context, or nil if
// none was installed (no implicit Init — callers must install one
// explicitly, usually via fabric's worker startup or their own call to
// Init on the main goroutine before spawning any workers).
func Current() *Context {
	id := currentID()
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[id]
}

// Local atomically swaps the calling goroutine's installed Context for
// new (which may be nil, to clear it) and returns the prior value (nil
// if none was installed). Unlike Free, this does not tear the prior
// Context's arena down — it is for callers that want to temporarily
// substitute a different Context and restore the original afterward.
func Local(new *Context) (old *Context) {
	id := currentID()
	registryMu.Lock()
	defer registryMu.Unlock()
	old = registry[id]
	if new == nil {
		delete(registry, id)
	} else {
		registry[id] = new
	}
	return old
}

// Tmp returns the calling goroutine's scratch arena. It panics if no
// Context is installed.
func Tmp() *allocator.Arena {
	ctx := mustCurrent()
	return ctx.arena
}

// Reader returns the calling goroutine's cached scratch reader, backed
// by r: the first call allocates it, and every later call Resets it onto
// r, discarding anything still buffered from before. Byte I/O itself
// is out of fabricrt's scope; this only caches the *bufio.Reader
// wrapper spec.md §4.1 calls the "scratch reader".
func Reader(r io.Reader) *bufio.Reader {
	ctx := mustCurrent()
	if ctx.reader == nil {
		ctx.reader = bufio.NewReader(r)
	} else {
		ctx.reader.Reset(r)
	}
	return ctx.reader
}

func mustCurrent() *Context {
	ctx := Current()
	if ctx == nil {
		panic("rtcontext: no Context installed for the calling goroutine")
	}
	return ctx
}
