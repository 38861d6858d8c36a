package strategy

import (
	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

// Penalty takes a single penalty with the attacker: face the goal, then
// feint away from the keeper and shoot. After the shot it stays idle.
type Penalty struct {
	*Base

	cfg  PenaltyConfig
	shot possession
	done bool
}

func NewPenalty(robot hardware.Channel, control ControlConfig, cfg PenaltyConfig, opts ...Option) *Penalty {
	p := &Penalty{cfg: cfg}
	p.Base = newBase("penalty", robot, control, p, opts)
	return p
}

func (p *Penalty) decide(ws world.State, t Timing) operation.Operation {
	robot := ws.Attacker
	if p.done || !robot.Valid() {
		return operation.Nothing()
	}

	if p.shot.phase == releasing {
		if !t.LastKick.IsZero() && !t.LastKick.Before(p.shot.since) {
			p.done = true
			return operation.Nothing()
		}
		return p.shot.pending
	}

	goal := ws.Pitch.Goal.Vec()
	if op, turning := p.cfg.face(robot, goal); turning {
		return op
	}

	return p.shot.release(operation.NewConfuseKick(p.kickLeft(ws), p.cfg.KickPower), t.Now)
}

// kickLeft aims away from the keeper. Left is the robot's left while it
// faces the goal; an unseen keeper gets the left side.
func (p *Penalty) kickLeft(ws world.State) bool {
	keeper := ws.TheirDefender
	if !keeper.Located() {
		return true
	}
	robot := ws.Attacker.Vec()
	facing := ws.Pitch.Goal.Vec().Sub(robot)
	// With y pointing down a positive cross product puts the keeper on the
	// robot's right.
	return facing.Cross(keeper.Vec().Sub(robot)) > 0
}
