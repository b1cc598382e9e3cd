// Package fabricrt_test holds runnable, doc-comment-visible examples
// exercising fabricrt end to end, in the same `Example...` style the
// teacher's submodules use for their own example_test.go files.
package fabricrt_test

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cumines-foundry/fabricrt/fabric"
	"github.com/cumines-foundry/fabricrt/rtcontext"
	"github.com/cumines-foundry/fabricrt/syncprim"
)

// ExampleFabric_wordFrequency is spec.md §8's "word frequency"
// end-to-end scenario: tokenize a couple of lines using the scratch
// arena for the transient token slice, and count into an ordinary map.
// The arena is cleared between lines, so its backing footprint never
// grows across iterations regardless of input length.
func ExampleFabric_wordFrequency() {
	ctx := rtcontext.Init()
	defer rtcontext.Free(ctx)

	lines := []string{"a b a", "b c"}
	counts := map[string]int{}

	for _, line := range lines {
		// The scratch arena isn't used to hold the []string itself here
		// (Go's slice/string types aren't placed in raw Regions without
		// unsafe reinterpretation fabricrt deliberately doesn't attempt);
		// instead it models the "transient per-line scratch allocation" a
		// byte-oriented tokenizer would need, demonstrating that repeated
		// Allocate/ClearAll cycles never grow the arena's backing store.
		for range strings.Fields(line) {
			if _, err := rtcontext.Tmp().Allocate(8, 1); err != nil {
				panic(err)
			}
		}
		for _, tok := range strings.Fields(line) {
			counts[tok]++
		}
		rtcontext.Tmp().ClearAll()
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s:%d\n", k, counts[k])
	}

	//output:
	//a:2
	//b:2
	//c:1
}

// ExampleFabric_parallelSum demonstrates the basic submission pattern:
// a Fabric, a Waitgroup for completion, and a Mutex guarding a shared
// accumulator — spec.md §8's "parallel add" scenario, at a scale small
// enough to keep the example's output deterministic and fast.
func ExampleFabric_parallelSum() {
	f := fabric.New(fabric.Settings{WorkerCount: 4, Name: "example"})
	defer f.Free()

	m := syncprim.NewMutex("accumulator")
	defer m.Free()
	wg := syncprim.NewWaitgroup()

	const n = 200
	sum := 0
	wg.Add(n)
	for i := 1; i <= n; i++ {
		fabric.Go(f, func() {
			defer wg.Done()
			m.Lock()
			defer m.Unlock()
			sum += i
		})
	}
	wg.Wait()

	fmt.Println(sum)

	//output:
	//20100
}

// ExampleFabric_goNilRunsInline shows fabric.Go(nil, task) running the
// task synchronously on the caller, per spec.md §6 — useful for call
// sites that want a single code path regardless of whether a Fabric is
// configured.
func ExampleFabric_goNilRunsInline() {
	var mu sync.Mutex
	var out []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		out = append(out, s)
	}

	record("before")
	fabric.Go(nil, func() { record("inline") })
	record("after")

	fmt.Println(strings.Join(out, ","))

	//output:
	//before,inline,after
}
