package syncprim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThread_RunsBodyAndJoins(t *testing.T) {
	ran := make(chan struct{})
	th := NewThread("worker-1", func() {
		close(ran)
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("thread body never ran")
	}
	th.Join()
	assert.Equal(t, "worker-1", th.Name())
}

func TestThread_PublishesThreadNew(t *testing.T) {
	var names []string
	old := hooksForThreadNew(&names)
	defer restoreHooks(old)

	th := NewThread("named-thread", func() {})
	th.Join()

	assert.Equal(t, []string{"named-thread"}, names)
}
