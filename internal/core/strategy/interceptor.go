package strategy

import (
	"math"

	"github.com/zeusync/pitchside/internal/core/geom"
	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
	"github.com/zeusync/pitchside/pkg/sequence"
)

// Interceptor keeps the defender on the line the ball is rolling along. It
// faces up or down the pitch and slides within a vertical band in front of
// our goal. It never catches or kicks.
type Interceptor struct {
	*Base

	cfg     InterceptorConfig
	history *sequence.Window[geom.Vec2]
}

func NewInterceptor(robot hardware.Channel, control ControlConfig, cfg InterceptorConfig, opts ...Option) *Interceptor {
	size := cfg.History
	if size < 2 {
		size = 2
	}
	i := &Interceptor{cfg: cfg, history: sequence.NewWindow[geom.Vec2](size)}
	i.Base = newBase("interceptor", robot, control, i, opts)
	return i
}

func (i *Interceptor) decide(ws world.State, _ Timing) operation.Operation {
	robot, ball := ws.Defender, ws.Ball
	if ball.Located() {
		i.history.Push(ball.Vec())
	}
	if !robot.Valid() || !ball.Located() {
		return operation.Nothing()
	}

	oldest, _ := i.history.Oldest()
	newest, _ := i.history.Newest()
	if i.history.Len() < 2 || math.Abs(newest.X-oldest.X) < i.cfg.StationaryDX {
		return operation.Nothing()
	}

	line := geom.FitLine(oldest, newest)
	if !line.Finite() {
		return operation.Nothing()
	}
	target := geom.Clamp(line.YAt(float64(robot.X)), i.cfg.BandTop, i.cfg.BandBottom)

	gap := target - float64(robot.Y)
	if math.Abs(gap) < i.cfg.CloseDistance {
		return operation.Nothing()
	}

	// Down the image is +90.
	facing, forward := -90.0, -1.0
	if robot.Heading() > 0 {
		facing, forward = 90, 1
	}
	if errDeg := geom.AngularError(robot.Heading(), facing); !i.cfg.aligned(errDeg) {
		return i.cfg.turn(errDeg)
	}

	return i.cfg.travel(gap * forward * i.cfg.Damping)
}
