package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadProfile_BeforeAfterLockPairing(t *testing.T) {
	defer ThreadProfileSet(ThreadProfile{})

	var events []string
	ThreadProfileSet(ThreadProfile{
		BeforeLock: func(handle LockHandle, userData any, kind LockKind) bool {
			events = append(events, "before")
			return true
		},
		AfterLock: func(handle LockHandle, userData any, kind LockKind) {
			events = append(events, "after")
		},
		AfterUnlock: func(handle LockHandle, userData any, kind LockKind) {
			events = append(events, "unlock")
		},
	})

	lock := NewLockHandle()
	ReportBeforeLock(lock, nil, LockExclusive)
	ReportAfterLock(lock, nil, LockExclusive)
	ReportAfterUnlock(lock, nil, LockExclusive)

	assert.Equal(t, []string{"before", "after", "unlock"}, events)
}

func TestHandles_AreDistinctEvenWithEqualNames(t *testing.T) {
	a := NewLockHandle()
	b := NewLockHandle()
	assert.NotEqual(t, a, b)

	t1 := NewThreadHandle()
	t2 := NewThreadHandle()
	assert.NotEqual(t, t1, t2)
}

func TestThreadProfile_MutexNewReturnsUserData(t *testing.T) {
	defer ThreadProfileSet(ThreadProfile{})

	ThreadProfileSet(ThreadProfile{
		MutexNew: func(handle LockHandle, name string) any { return name + "-data" },
	})

	got := ReportMutexNew(NewLockHandle(), "mu")
	assert.Equal(t, "mu-data", got)
}
