package allocator

import "sync"

// DefaultArenaBlockSize is the initial block size fabricrt's scratch
// arenas are constructed with (4 MiB, per spec).
const DefaultArenaBlockSize = 4 * 1024 * 1024

// Arena is a bump allocator intended for short-lived, same-goroutine
// allocations. It is not safe for concurrent use — each goroutine's
// Context owns exactly one Arena, never shared across goroutines.
type Arena struct {
	mu      sync.Mutex // guards against accidental cross-goroutine misuse, not for normal-path contention
	backing Allocator
	blocks  []arenaBlock
	first   int // size of the first block; never freed by ClearAll
}

type arenaBlock struct {
	region Region
	used   int
}

// NewArena constructs an Arena with an initial block of blockSize bytes,
// backed by the given Allocator (the clib allocator, for a Context's
// scratch arena).
func NewArena(backing Allocator, blockSize int) (*Arena, error) {
	if blockSize <= 0 {
		blockSize = DefaultArenaBlockSize
	}
	a := &Arena{backing: backing, first: blockSize}
	if err := a.growLocked(blockSize, 16); err != nil {
		return nil, err
	}
	return a, nil
}

// Allocate bump-allocates size bytes aligned to align from the arena's
// current block, growing (by allocating a new block from the backing
// allocator) if the current block lacks room.
func (a *Arena) Allocate(size, align int) (Region, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if size <= 0 {
		return Region{}, ErrExhausted
	}
	if align <= 0 {
		align = 1
	}

	last := &a.blocks[len(a.blocks)-1]
	start := alignUp(last.used, align)
	if start+size > last.region.Len {
		grow := last.region.Len
		if size > grow {
			grow = size
		}
		if err := a.growLocked(grow, align); err != nil {
			return Region{}, err
		}
		last = &a.blocks[len(a.blocks)-1]
		start = 0
	}
	region := Region{
		Ptr:   addOffset(last.region.Ptr, start),
		Len:   size,
		Align: align,
	}
	last.used = start + size
	return region, nil
}

// ClearAll invalidates every region handed out since the last ClearAll
// (or since construction). It resets the first block's bump cursor to
// zero and returns every subsequently-grown block to the backing
// allocator, so steady-state use that fits the first block never grows
// the arena's backing footprint across iterations (spec scenario 5).
func (a *Arena) ClearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 1; i < len(a.blocks); i++ {
		a.backing.Free(a.blocks[i].region)
	}
	a.blocks = a.blocks[:1]
	a.blocks[0].used = 0
}

// Free releases every block back to the backing allocator. The Arena
// must not be used afterward.
func (a *Arena) Free() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.blocks {
		a.backing.Free(a.blocks[i].region)
	}
	a.blocks = nil
}

// growLocked allocates a new block from the backing allocator, aligned
// to at least align: a freshly grown block is always handed out at
// offset 0 (see Allocate), so the block's own base pointer must satisfy
// whatever alignment the caller requested, not just a fixed default.
func (a *Arena) growLocked(size, align int) error {
	if align < 16 {
		align = 16
	}
	region, err := a.backing.Allocate(size, align)
	if err != nil {
		return err
	}
	a.blocks = append(a.blocks, arenaBlock{region: region})
	return nil
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}
