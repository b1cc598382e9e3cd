package deadlock

import (
	"iter"
	"sort"

	"github.com/cumines-foundry/fabricrt/hooks"
)

// findCycles runs a depth-first search over the wait-for graph implied by
// waitFor (goroutine -> lock it wants) and owners (lock -> goroutines
// holding it), yielding each distinct cycle as the ordered slice of
// goroutine IDs that make it up. Only cycles of length >= 2 are yielded:
// a goroutine waiting on a lock it already holds (a same-goroutine
// self-edge, e.g. a second shared acquisition of an RWMutex) is skipped.
func findCycles(waitFor map[uint64]lockEdge, owners map[hooks.LockHandle][]uint64) iter.Seq[[]uint64] {
	adjacency := map[uint64][]uint64{}
	for waiter, edge := range waitFor {
		for _, holder := range owners[edge.lock] {
			adjacency[waiter] = append(adjacency[waiter], holder)
		}
	}

	starts := make([]uint64, 0, len(adjacency))
	for g := range adjacency {
		starts = append(starts, g)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	return func(yield func([]uint64) bool) {
		visited := map[uint64]bool{}
		onStack := map[uint64]bool{}
		var stack []uint64

		var dfs func(g uint64) bool
		dfs = func(g uint64) bool {
			visited[g] = true
			onStack[g] = true
			stack = append(stack, g)

			for _, next := range adjacency[g] {
				if onStack[next] {
					if idx := indexOf(stack, next); idx >= 0 && len(stack)-idx >= 2 {
						cycle := append([]uint64(nil), stack[idx:]...)
						if !yield(cycle) {
							return false
						}
					}
					continue
				}
				if !visited[next] {
					if !dfs(next) {
						return false
					}
				}
			}

			stack = stack[:len(stack)-1]
			onStack[g] = false
			return true
		}

		for _, g := range starts {
			if !visited[g] {
				if !dfs(g) {
					return
				}
			}
		}
	}
}

func indexOf(s []uint64, v uint64) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
