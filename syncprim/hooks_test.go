package syncprim

import "github.com/cumines-foundry/fabricrt/hooks"

// installRecordingHooks wires a ThreadProfile table that appends a label
// to *order for each event, so tests can assert ordering without caring
// about the opaque handle/userData values threaded through.
func installRecordingHooks(order *[]string) hooks.ThreadProfile {
	return hooks.ThreadProfileSet(hooks.ThreadProfile{
		MutexNew: func(handle hooks.LockHandle, name string) any {
			*order = append(*order, "new")
			return nil
		},
		MutexFree: func(handle hooks.LockHandle, userData any) {
			*order = append(*order, "free")
		},
		BeforeLock: func(handle hooks.LockHandle, userData any, kind hooks.LockKind) bool {
			*order = append(*order, "before")
			return true
		},
		AfterLock: func(handle hooks.LockHandle, userData any, kind hooks.LockKind) {
			*order = append(*order, "after")
		},
		AfterUnlock: func(handle hooks.LockHandle, userData any, kind hooks.LockKind) {
			*order = append(*order, "unlock")
		},
	})
}

func restoreHooks(old hooks.ThreadProfile) {
	hooks.ThreadProfileSet(old)
}

// hooksForThreadNew records every name published via ThreadProfile.ThreadNew,
// so a test can assert NewThread publishes the event before its body runs.
func hooksForThreadNew(names *[]string) hooks.ThreadProfile {
	return hooks.ThreadProfileSet(hooks.ThreadProfile{
		ThreadNew: func(handle hooks.ThreadHandle, name string) {
			*names = append(*names, name)
		},
	})
}

// hooksForKinds records "shared"/"exclusive" for every AfterLock, so a
// test can assert RWMutex's read/write calls map to the right LockKind.
func hooksForKinds(kinds *[]string) hooks.ThreadProfile {
	label := func(kind hooks.LockKind) string {
		if kind == hooks.LockShared {
			return "shared"
		}
		return "exclusive"
	}
	return hooks.ThreadProfileSet(hooks.ThreadProfile{
		AfterLock: func(handle hooks.LockHandle, userData any, kind hooks.LockKind) {
			*kinds = append(*kinds, label(kind))
		},
	})
}
