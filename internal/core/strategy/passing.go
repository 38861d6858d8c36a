package strategy

import (
	"github.com/zeusync/pitchside/internal/core/geom"
	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

// Passer drives the defender: it collects the ball, turns to our attacker
// and passes once the lane is free of the opposing attacker.
type Passer struct {
	*Base

	cfg  PassingConfig
	ball possession
}

func NewPasser(robot hardware.Channel, control ControlConfig, cfg PassingConfig, opts ...Option) *Passer {
	p := &Passer{cfg: cfg, ball: possession{cfg: cfg.Possession}}
	p.Base = newBase("passer", robot, control, p, opts)
	return p
}

func (p *Passer) decide(ws world.State, t Timing) operation.Operation {
	robot, ball, mate := ws.Defender, ws.Ball, ws.Attacker
	if !robot.Valid() || !ball.Located() || !mate.Located() {
		return operation.Nothing()
	}

	p.ball.settle(t)

	switch p.ball.phase {
	case releasing:
		return p.ball.pending
	case catching:
		if !p.ball.escaped(robot, ball) {
			return operation.NewCatch()
		}
		p.ball.reset()
	case carrying:
		if p.ball.slipped(robot, ball, t.Now) {
			return p.ball.release(operation.NewKick(p.cfg.PassPower), t.Now)
		}
		if op, turning := p.cfg.face(robot, mate.Vec()); turning {
			return op
		}
		if p.blocked(ws) {
			return operation.Nothing()
		}
		return p.ball.release(operation.NewKick(p.cfg.PassPower), t.Now)
	}

	op, arrived := p.cfg.approach(robot, ball.Vec(), p.cfg.CatchDistance)
	if arrived {
		return p.ball.catch(t.Now)
	}
	return op
}

// blocked reports an opposing attacker standing on the pass lane.
func (p *Passer) blocked(ws world.State) bool {
	opponent := ws.TheirAttacker
	if !opponent.Located() {
		return false
	}
	return geom.SegmentDistance(opponent.Vec(), ws.Defender.Vec(), ws.Attacker.Vec()) < p.cfg.BlockRadius
}

// Receiver drives the attacker during a pass: it takes a free lane in its
// zone, faces the ball and catches it when it arrives.
type Receiver struct {
	*Base

	cfg  PassingConfig
	ball possession
}

func NewReceiver(robot hardware.Channel, control ControlConfig, cfg PassingConfig, opts ...Option) *Receiver {
	r := &Receiver{cfg: cfg, ball: possession{cfg: cfg.Possession}}
	r.Base = newBase("receiver", robot, control, r, opts)
	return r
}

func (r *Receiver) decide(ws world.State, t Timing) operation.Operation {
	robot, ball := ws.Attacker, ws.Ball
	if !robot.Valid() || !ball.Located() {
		return operation.Nothing()
	}

	r.ball.settle(t)

	switch r.ball.phase {
	case carrying:
		// Pass completed; hold the ball.
		return operation.Nothing()
	case catching:
		if !r.ball.escaped(robot, ball) {
			return operation.NewCatch()
		}
		r.ball.reset()
	}

	if robot.Vec().Distance(ball.Vec()) <= r.cfg.CatchDistance {
		return r.ball.catch(t.Now)
	}

	op, arrived := r.cfg.approach(robot, r.lane(ws), r.cfg.SpotDistance)
	if !arrived {
		return op
	}
	op, _ = r.cfg.face(robot, ball.Vec())
	return op
}

// lane picks the spot in our zone on the side away from the opposing
// attacker, or the centre when it is not seen.
func (r *Receiver) lane(ws world.State) geom.Vec2 {
	x, y := ws.Pitch.AttackerZone().Mid(), ws.Pitch.CentreY()
	if opponent := ws.TheirAttacker; opponent.Located() {
		if opponent.Y < y {
			y += r.cfg.LaneOffset
		} else {
			y -= r.cfg.LaneOffset
		}
	}
	return geom.V(x, y)
}
