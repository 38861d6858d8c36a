package strategy

import (
	"math"

	"github.com/zeusync/pitchside/internal/core/geom"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

// speed maps a remaining distance onto the configured speed range.
func (m Motion) speed(distance float64) int {
	return int(math.Round(geom.Clamp(math.Abs(distance)*m.SpeedGain, float64(m.MinSpeed), float64(m.MaxSpeed))))
}

// turn rotates by a damped fraction of the heading error.
func (m Motion) turn(errDeg float64) operation.Operation {
	return operation.NewRotate(round(errDeg*m.RotateGain), m.RotateSpeed)
}

func (m Motion) travel(distance float64) operation.Operation {
	return operation.NewTravel(round(distance*m.TravelScale), m.speed(distance))
}

func (m Motion) aligned(errDeg float64) bool {
	return math.Abs(errDeg) <= m.AngleTolerance
}

// face turns the robot toward a point. It returns false once aligned.
func (m Motion) face(robot world.Pose, target geom.Vec2) (operation.Operation, bool) {
	errDeg := geom.AngularError(robot.Heading(), geom.Bearing(robot.Vec(), target))
	if m.aligned(errDeg) {
		return operation.Nothing(), false
	}
	return m.turn(errDeg), true
}

// approach drives toward target. Reaching it wins over heading so a robot
// sitting on its target does not oscillate between turning and driving.
func (m Motion) approach(robot world.Pose, target geom.Vec2, reach float64) (op operation.Operation, arrived bool) {
	dist := robot.Vec().Distance(target)
	if dist <= reach {
		return operation.Nothing(), true
	}
	if op, turning := m.face(robot, target); turning {
		return op, false
	}
	return m.travel(dist - reach), false
}

func round(v float64) int { return int(math.Round(v)) }
