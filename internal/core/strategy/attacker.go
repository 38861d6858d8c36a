package strategy

import (
	"math"

	"github.com/zeusync/pitchside/internal/core/geom"
	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

// Attacker chases the ball, catches it, carries it toward the goal and
// shoots. While the ball is in the opposing attacker's zone it waits at home.
type Attacker struct {
	*Base

	cfg  AttackerConfig
	ball possession
}

func NewAttacker(robot hardware.Channel, control ControlConfig, cfg AttackerConfig, opts ...Option) *Attacker {
	a := &Attacker{cfg: cfg, ball: possession{cfg: cfg.Possession}}
	a.Base = newBase("attacker", robot, control, a, opts)
	return a
}

func (a *Attacker) decide(ws world.State, t Timing) operation.Operation {
	robot, ball := ws.Attacker, ws.Ball
	if !robot.Valid() || !ball.Located() {
		return operation.Nothing()
	}

	a.ball.settle(t)

	switch a.ball.phase {
	case releasing:
		return a.ball.pending
	case catching:
		if a.ball.escaped(robot, ball) {
			a.ball.reset()
			break
		}
		return operation.NewCatch()
	case carrying:
		return a.carry(ws, t)
	}

	return a.seek(ws, t)
}

func (a *Attacker) seek(ws world.State, t Timing) operation.Operation {
	robot, ball := ws.Attacker, ws.Ball
	if ws.Pitch.OpponentAttackZone().Contains(ball.X) {
		return a.goHome(ws)
	}
	op, arrived := a.cfg.approach(robot, ball.Vec(), a.cfg.CatchDistance)
	if arrived {
		return a.ball.catch(t.Now)
	}
	return op
}

func (a *Attacker) goHome(ws world.State) operation.Operation {
	home := geom.V(ws.Pitch.AttackerZone().Mid(), ws.Pitch.CentreY())
	op, _ := a.cfg.approach(ws.Attacker, home, a.cfg.HomeDistance)
	return op
}

func (a *Attacker) carry(ws world.State, t Timing) operation.Operation {
	robot, ball := ws.Attacker, ws.Ball
	if a.ball.slipped(robot, ball, t.Now) {
		return a.ball.release(operation.NewKick(a.cfg.KickPower), t.Now)
	}

	goal := ws.Pitch.Goal.Vec()
	dist := robot.Vec().Distance(goal)
	errDeg := geom.AngularError(robot.Heading(), geom.Bearing(robot.Vec(), goal))

	if !a.cfg.aligned(errDeg) {
		if math.Abs(errDeg) <= a.cfg.ArcMaxAngle && dist > a.cfg.ArcMinDistance {
			arc := geom.ArcTo(dist, errDeg)
			length := math.Max(arc.Length-a.cfg.ShootDistance, 0)
			return operation.NewTravelArc(
				round(arc.Radius*a.cfg.TravelScale),
				round(length*a.cfg.TravelScale),
				a.cfg.speed(length),
			)
		}
		return a.cfg.turn(errDeg)
	}

	switch {
	case dist > a.cfg.MoveKickDistance:
		return a.cfg.travel(dist - a.cfg.ShootDistance)
	case dist > a.cfg.ShootDistance:
		run := dist - a.cfg.ShootDistance
		return a.ball.release(operation.NewMoveThenKick(round(run*a.cfg.TravelScale), a.cfg.speed(run), a.cfg.KickPower), t.Now)
	default:
		return a.ball.release(operation.NewKick(a.cfg.KickPower), t.Now)
	}
}
