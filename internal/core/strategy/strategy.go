// Package strategy turns world snapshots into robot commands.
//
// Every strategy drives one robot. Perception calls OnWorldState on its own
// goroutine; the decision is written into a single operation slot. A control
// loop owned by the strategy reads the slot every tick and dispatches it to
// the robot. The slot, the debounce timestamps and the decision memory are
// guarded by one mutex which is never held across a hardware call.
package strategy

import (
	"context"
	"errors"
	"time"

	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

var (
	ErrAlreadyStarted = errors.New("strategy already started")
	ErrStopped        = errors.New("strategy stopped")
)

// Strategy is one play behaviour bound to one robot.
type Strategy interface {
	// OnWorldState decides on a new operation. It never blocks on hardware.
	OnWorldState(ws world.State)

	Name() string
	ID() string

	// Start launches the control loop.
	Start(ctx context.Context) error
	// Stop asks the control loop to exit after its current tick.
	Stop()
	// Done is closed once the control loop has exited.
	Done() <-chan struct{}

	// Current returns a copy of the operation in the slot.
	Current() operation.Operation
	Stats() Stats
}

var (
	_ Strategy = (*Attacker)(nil)
	_ Strategy = (*Interceptor)(nil)
	_ Strategy = (*Passer)(nil)
	_ Strategy = (*Receiver)(nil)
	_ Strategy = (*Penalty)(nil)
)

// Timing is what a decision may know about time: the current instant and
// when the last catch or kick that the robot acknowledged was sent. A
// dispatch still in flight, or one that failed, is not reported.
type Timing struct {
	Now       time.Time
	LastCatch time.Time
	LastKick  time.Time
}

// decider is the per strategy decision function. It runs under the slot
// lock and may update its own bounded memory.
type decider interface {
	decide(ws world.State, t Timing) operation.Operation
}

// Clock reads the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Stats counts what a control loop did.
type Stats struct {
	Ticks      uint64
	Dispatched uint64
	Debounced  uint64
	Stale      uint64
	Failed     uint64
}

type options struct {
	clock  Clock
	logger log.Log
}

// Option customises a strategy.
type Option func(*options)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the logger; strategy fields are added to it.
func WithLogger(l log.Log) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{clock: systemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Provide()
	}
	return o
}
