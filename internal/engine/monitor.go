package engine

import (
	"sync/atomic"
	"time"

	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/world"
)

// frameMonitor watches feed deliveries while the engine runs. Registering it
// also switches on the feed metrics served by /healthz.
type frameMonitor struct {
	logger log.Log
	slow   time.Duration
	last   atomic.Int64
}

func newFrameMonitor(logger log.Log, slow time.Duration) *frameMonitor {
	return &frameMonitor{logger: logger, slow: slow}
}

func (m *frameMonitor) OnPublish(ws world.State, receivers int, durationMicros int64) {
	m.last.Store(time.Now().UnixNano())
	if d := time.Duration(durationMicros) * time.Microsecond; m.slow > 0 && d > m.slow {
		m.logger.Warn("Slow world state delivery",
			log.Uint64("seq", ws.Seq),
			log.Int("receivers", receivers),
			log.Duration("took", d),
		)
	}
}

// age is the time since the last delivered frame, or -1 before the first.
func (m *frameMonitor) age() time.Duration {
	last := m.last.Load()
	if last == 0 {
		return -1
	}
	return time.Since(time.Unix(0, last))
}
