// Package hardwaretest provides a recording hardware.Channel for tests.
package hardwaretest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zeusync/pitchside/internal/core/hardware"
)

// Call is one recorded command.
type Call struct {
	Command string
	Args    []int
	At      time.Time
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Command, c.Args) }

// Recorder records every command. Fail makes the next calls return an error
// wrapping hardware.ErrLinkDown; Delay makes each call block.
type Recorder struct {
	mu      sync.Mutex
	calls   []Call
	failing int
	delay   time.Duration
	notify  chan Call
}

var _ hardware.Channel = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan Call, 256)}
}

// Fail makes the next n calls fail.
func (r *Recorder) Fail(n int) {
	r.mu.Lock()
	r.failing = n
	r.mu.Unlock()
}

// SetDelay makes every call block for d, or until its context ends.
func (r *Recorder) SetDelay(d time.Duration) {
	r.mu.Lock()
	r.delay = d
	r.mu.Unlock()
}

// Calls returns a copy of what has been recorded so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns how many calls of the given command were recorded.
func (r *Recorder) Count(command string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Command == command {
			n++
		}
	}
	return n
}

// Notify delivers each recorded call. Calls are dropped when nobody reads.
func (r *Recorder) Notify() <-chan Call { return r.notify }

func (r *Recorder) record(ctx context.Context, command string, args ...int) error {
	r.mu.Lock()
	call := Call{Command: command, Args: args, At: time.Now()}
	r.calls = append(r.calls, call)
	fail := r.failing > 0
	if fail {
		r.failing--
	}
	delay := r.delay
	r.mu.Unlock()

	select {
	case r.notify <- call:
	default:
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}
	if fail {
		return fmt.Errorf("%s: %w", command, hardware.ErrLinkDown)
	}
	return nil
}

func (r *Recorder) Travel(ctx context.Context, distance, speed int) error {
	return r.record(ctx, "travel", distance, speed)
}

func (r *Recorder) Rotate(ctx context.Context, degrees, speed int) error {
	return r.record(ctx, "rotate", degrees, speed)
}

func (r *Recorder) TravelArc(ctx context.Context, radius, distance, speed int) error {
	return r.record(ctx, "travel_arc", radius, distance, speed)
}

func (r *Recorder) Catch(ctx context.Context) error {
	return r.record(ctx, "catch")
}

func (r *Recorder) Kick(ctx context.Context, power int) error {
	return r.record(ctx, "kick", power)
}
