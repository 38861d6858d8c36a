package strategy

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

// Base owns the operation slot and the control loop of one strategy. The
// concrete strategies embed it and supply the decision function.
type Base struct {
	name    string
	id      string
	robot   hardware.Channel
	control ControlConfig
	clock   Clock
	logger  log.Log
	decider decider

	mu   sync.Mutex
	slot operation.Operation
	// lastCatch and lastKick are debounce stamps, taken when a dispatch
	// begins. caught and kicked are set only once the robot acknowledged.
	lastCatch time.Time
	lastKick  time.Time
	caught    time.Time
	kicked    time.Time

	lifecycle sync.Mutex
	started   bool
	stopped   atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	doneOnce  sync.Once

	ticks      atomic.Uint64
	dispatched atomic.Uint64
	debounced  atomic.Uint64
	stale      atomic.Uint64
	failed     atomic.Uint64
}

func newBase(name string, robot hardware.Channel, control ControlConfig, d decider, opts []Option) *Base {
	o := buildOptions(opts)
	id := uuid.NewString()
	return &Base{
		name:    name,
		id:      id,
		robot:   robot,
		control: control,
		clock:   o.clock,
		logger:  o.logger.Named("strategy").With(log.String("strategy", name), log.String("id", id)),
		decider: d,
		slot:    operation.Nothing(),
		done:    make(chan struct{}),
	}
}

func (b *Base) Name() string { return b.name }
func (b *Base) ID() string   { return b.id }

// OnWorldState runs the decision function and overwrites the slot.
// Snapshots arriving after Stop are ignored.
func (b *Base) OnWorldState(ws world.State) {
	if b.stopped.Load() {
		return
	}

	b.mu.Lock()
	now := b.clock.Now()
	op := b.decider.decide(ws, Timing{Now: now, LastCatch: b.caught, LastKick: b.kicked})
	op.DecidedAt = now
	b.slot = op
	b.mu.Unlock()
}

func (b *Base) Current() operation.Operation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slot
}

func (b *Base) Stats() Stats {
	return Stats{
		Ticks:      b.ticks.Load(),
		Dispatched: b.dispatched.Load(),
		Debounced:  b.debounced.Load(),
		Stale:      b.stale.Load(),
		Failed:     b.failed.Load(),
	}
}

// Start launches the control loop. Hardware calls made by the loop do not
// inherit the cancellation of ctx, so an action already sent to the robot
// is never cut short; cancelling ctx only ends the wait between ticks.
func (b *Base) Start(ctx context.Context) error {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()

	if b.stopped.Load() {
		return ErrStopped
	}
	if b.started {
		return ErrAlreadyStarted
	}
	b.started = true

	loopCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	go b.run(loopCtx, context.WithoutCancel(ctx))

	b.logger.Info("Control loop started", log.Duration("tick", b.control.Tick))
	return nil
}

// Stop is cooperative: the loop exits at its next check and a dispatch in
// progress runs to completion. Stop is safe to call more than once and
// before Start.
func (b *Base) Stop() {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()

	if b.stopped.Swap(true) {
		return
	}
	if b.cancel != nil {
		b.cancel()
	}
	if !b.started {
		b.closeDone()
	}
}

func (b *Base) Done() <-chan struct{} { return b.done }

func (b *Base) closeDone() {
	b.doneOnce.Do(func() { close(b.done) })
}

func (b *Base) run(ctx, dispatchCtx context.Context) {
	defer b.closeDone()

	timer := time.NewTimer(b.control.Tick)
	defer timer.Stop()

	for {
		if b.stopped.Load() {
			b.logger.Info("Control loop stopped", log.Uint64("dispatched", b.dispatched.Load()))
			return
		}

		b.step(dispatchCtx)

		timer.Reset(b.control.Tick)
		select {
		case <-ctx.Done():
			b.logger.Info("Control loop interrupted", log.Uint64("dispatched", b.dispatched.Load()))
			return
		case <-timer.C:
		}
	}
}

// step performs one tick: snapshot the slot, debounce, dispatch.
func (b *Base) step(ctx context.Context) {
	b.ticks.Add(1)

	now := b.clock.Now()
	b.mu.Lock()
	op := b.slot
	if op.Kind == operation.DoNothing {
		b.mu.Unlock()
		return
	}
	if b.control.StaleAfter > 0 && now.Sub(op.DecidedAt) > b.control.StaleAfter {
		b.mu.Unlock()
		b.stale.Add(1)
		b.logger.Debug("Dropped stale operation", log.String("operation", op.String()))
		return
	}

	var stamp, confirmed *time.Time
	var previous time.Time
	if op.Irreversible() {
		stamp, confirmed = &b.lastCatch, &b.caught
		if op.Kicks() {
			stamp, confirmed = &b.lastKick, &b.kicked
		}
		if !stamp.IsZero() && now.Sub(*stamp) < b.control.Cooldown {
			b.mu.Unlock()
			b.debounced.Add(1)
			b.logger.Debug("Debounced operation", log.String("operation", op.String()))
			return
		}
		previous = *stamp
		*stamp = now
	}
	b.mu.Unlock()

	if err := b.dispatch(ctx, op); err != nil {
		b.failed.Add(1)
		if stamp != nil {
			// The action never happened, so it must not count for debounce.
			b.mu.Lock()
			if stamp.Equal(now) {
				*stamp = previous
			}
			b.mu.Unlock()
		}
		b.logger.Error("Dispatch failed", log.String("operation", op.String()), log.Error(err))
		return
	}

	if confirmed != nil {
		b.mu.Lock()
		if confirmed.Before(now) {
			*confirmed = now
		}
		b.mu.Unlock()
	}
	b.dispatched.Add(1)
	b.logger.Debug("Dispatched operation", log.String("operation", op.String()))
}

func (b *Base) dispatch(ctx context.Context, op operation.Operation) error {
	switch op.Kind {
	case operation.DoNothing:
		return nil
	case operation.Travel:
		return b.robot.Travel(ctx, op.Distance, op.Speed)
	case operation.Rotate:
		return b.robot.Rotate(ctx, op.Degrees, op.Speed)
	case operation.TravelArc:
		return b.robot.TravelArc(ctx, op.Radius, op.Distance, op.Speed)
	case operation.Catch:
		return b.robot.Catch(ctx)
	case operation.Kick:
		return b.robot.Kick(ctx, op.Power)
	case operation.MoveThenKick:
		if err := b.robot.Travel(ctx, op.Distance, op.Speed); err != nil {
			return fmt.Errorf("move before kick: %w", err)
		}
		return b.robot.Kick(ctx, op.Power)
	case operation.ConfuseKickLeft, operation.ConfuseKickRight:
		degrees := b.control.ConfuseAngle
		if op.Kind == operation.ConfuseKickLeft {
			degrees = -degrees
		}
		if err := b.robot.Rotate(ctx, degrees, b.control.ConfuseSpeed); err != nil {
			return fmt.Errorf("feint before kick: %w", err)
		}
		return b.robot.Kick(ctx, op.Power)
	default:
		return fmt.Errorf("unknown operation kind %d", op.Kind)
	}
}
