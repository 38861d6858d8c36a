package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core), LevelInfo)

	l.Debug("dropped")
	l.Info("dispatched",
		String("strategy", "attacker"),
		Int("distance", 42),
		Float64("angle", 12.5),
		Duration("tick", 400*time.Millisecond),
		Error(errors.New("link down")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "dispatched", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "attacker", fields["strategy"])
	assert.Equal(t, int64(42), fields["distance"])
	assert.Equal(t, "link down", fields["error"])

	l.SetLevel(LevelDebug)
	l.Debug("kept")
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, LevelDebug, l.GetLevel())
}

func TestDerivedLoggersShareLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core), LevelWarn)
	child := l.With(String("robot", "defender")).Named("loop")

	child.Info("hidden")
	assert.Equal(t, 0, logs.Len())

	l.SetLevel(LevelInfo)
	child.Info("visible")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "loop", logs.All()[0].LoggerName)
	assert.Equal(t, "defender", logs.All()[0].ContextMap()["robot"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelSilent, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := NewNop()
	l.Error("nothing happens")
	assert.Equal(t, LevelSilent, l.GetLevel())
}
