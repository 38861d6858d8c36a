package hardware

import (
	"context"

	"github.com/zeusync/pitchside/internal/core/observability/log"
)

// DryRun logs commands instead of sending them. It backs robots whose link
// is disabled.
type DryRun struct {
	logger log.Log
}

var _ Channel = (*DryRun)(nil)

func NewDryRun(robot Robot, logger log.Log) *DryRun {
	if logger == nil {
		logger = log.Provide()
	}
	return &DryRun{logger: logger.With(log.String("robot", string(robot)), log.Bool("dry_run", true))}
}

func (d *DryRun) Travel(_ context.Context, distance, speed int) error {
	d.logger.Info("travel", log.Int("distance", distance), log.Int("speed", speed))
	return nil
}

func (d *DryRun) Rotate(_ context.Context, degrees, speed int) error {
	d.logger.Info("rotate", log.Int("degrees", degrees), log.Int("speed", speed))
	return nil
}

func (d *DryRun) TravelArc(_ context.Context, radius, distance, speed int) error {
	d.logger.Info("travel arc", log.Int("radius", radius), log.Int("distance", distance), log.Int("speed", speed))
	return nil
}

func (d *DryRun) Catch(_ context.Context) error {
	d.logger.Info("catch")
	return nil
}

func (d *DryRun) Kick(_ context.Context, power int) error {
	d.logger.Info("kick", log.Int("power", power))
	return nil
}
