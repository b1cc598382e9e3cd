package syncprim

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRWMutex_MultipleReadersOneWriter(t *testing.T) {
	m := NewRWMutex("rw")
	defer m.Free()

	m.RLock()
	m.RLock() // a single goroutine may hold multiple read locks
	m.RUnlock()
	m.RUnlock()

	var wg sync.WaitGroup
	counter := 0
	const n = 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.Lock()
			defer m.Unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, n, counter)
}

func TestRWMutex_EventsDistinguishSharedAndExclusive(t *testing.T) {
	var kinds []string
	old := hooksForKinds(&kinds)
	defer restoreHooks(old)

	m := NewRWMutex("rw-kinds")
	defer m.Free()

	m.RLock()
	m.RUnlock()
	m.Lock()
	m.Unlock()

	assert.Equal(t, []string{"shared", "exclusive"}, kinds)
}
