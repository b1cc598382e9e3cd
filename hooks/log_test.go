package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_RoutesToInstalledLevel(t *testing.T) {
	defer LogSet(Log{})

	var got []string
	LogSet(Log{
		Warning:  func(msg string) { got = append(got, "warn:"+msg) },
		Critical: func(msg string) { got = append(got, "crit:"+msg) },
	})

	LogDebug("ignored")   // no Debug hook installed
	LogWarning("stall")
	LogCritical("panic")

	assert.Equal(t, []string{"warn:stall", "crit:panic"}, got)
}

func TestLog_EmptyTableIsNoop(t *testing.T) {
	defer LogSet(Log{})
	LogSet(Log{})
	assert.NotPanics(t, func() { LogInfo("anything") })
}
