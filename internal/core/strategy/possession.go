package strategy

import (
	"time"

	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

type phase int

const (
	seeking phase = iota
	// catching holds a Catch decision until the loop has fired the catcher.
	catching
	carrying
	// releasing holds a kick until the loop has fired it.
	releasing
)

func (p phase) String() string {
	switch p {
	case seeking:
		return "seeking"
	case catching:
		return "catching"
	case carrying:
		return "carrying"
	case releasing:
		return "releasing"
	default:
		return "unknown"
	}
}

// possession is the ball handling memory of a strategy. It lives under the
// strategy's slot lock.
type possession struct {
	cfg Possession

	phase    phase
	since    time.Time
	caughtAt time.Time
	pending  operation.Operation
}

// settle advances the phase once the control loop has dispatched the
// irreversible action that was decided.
func (p *possession) settle(t Timing) {
	switch p.phase {
	case catching:
		if !t.LastCatch.IsZero() && !t.LastCatch.Before(p.since) {
			p.phase = carrying
			p.caughtAt = t.LastCatch
		}
	case releasing:
		if !t.LastKick.IsZero() && !t.LastKick.Before(p.since) {
			p.reset()
		}
	}
}

func (p *possession) catch(now time.Time) operation.Operation {
	if p.phase != catching {
		p.phase = catching
		p.since = now
	}
	return operation.NewCatch()
}

func (p *possession) release(op operation.Operation, now time.Time) operation.Operation {
	p.phase = releasing
	p.since = now
	p.pending = op
	return op
}

func (p *possession) reset() {
	*p = possession{cfg: p.cfg}
}

// slipped reports a catch that missed: the ball stayed away from the robot
// for longer than the grace period after the catch.
func (p *possession) slipped(robot, ball world.Pose, now time.Time) bool {
	return p.phase == carrying &&
		robot.Vec().Distance(ball.Vec()) > p.cfg.SlipDistance &&
		now.Sub(p.caughtAt) > p.cfg.ReleaseAfter
}

// escaped reports a ball that rolled away before the catcher fired.
func (p *possession) escaped(robot, ball world.Pose) bool {
	return p.phase == catching && robot.Vec().Distance(ball.Vec()) > 2*p.cfg.CatchDistance
}
