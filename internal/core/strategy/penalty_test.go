package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/pitchside/internal/core/hardware/hardwaretest"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

func penaltyState(robot, keeper world.Pose) world.State {
	return world.State{Attacker: robot, TheirDefender: keeper, Pitch: testPitch()}
}

func TestPenaltyKicksAwayFromKeeper(t *testing.T) {
	robot := world.Pose{X: 400, Y: 240, Orientation: 1}

	tests := []struct {
		name   string
		keeper world.Pose
		want   operation.Kind
	}{
		{name: "keeper high", keeper: world.Pose{X: 570, Y: 200, Orientation: 180}, want: operation.ConfuseKickRight},
		{name: "keeper low", keeper: world.Pose{X: 570, Y: 280, Orientation: 180}, want: operation.ConfuseKickLeft},
		{name: "keeper unseen", keeper: world.Pose{}, want: operation.ConfuseKickLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPenalty(hardwaretest.NewRecorder(), testControl(), DefaultPenaltyConfig(), quiet(newManualClock())...)
			p.OnWorldState(penaltyState(robot, tt.keeper))
			op := p.Current()
			assert.Equal(t, tt.want, op.Kind)
			assert.Equal(t, 900, op.Power)
		})
	}
}

func TestPenaltyAimsThenShootsOnce(t *testing.T) {
	rec := hardwaretest.NewRecorder()
	clock := newManualClock()
	p := NewPenalty(rec, testControl(), DefaultPenaltyConfig(), quiet(clock)...)
	keeper := world.Pose{X: 570, Y: 280, Orientation: 180}

	p.OnWorldState(penaltyState(world.Pose{X: 400, Y: 240, Orientation: 90}, keeper))
	assert.Equal(t, operation.Rotate, p.Current().Kind)

	p.OnWorldState(penaltyState(world.Pose{X: 400, Y: 240, Orientation: 2}, keeper))
	p.step(context.Background())

	var got []string
	for _, c := range rec.Calls() {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{"rotate[-25 200]", "kick[900]"}, got)

	p.OnWorldState(penaltyState(world.Pose{X: 400, Y: 240, Orientation: 2}, keeper))
	assert.Equal(t, operation.DoNothing, p.Current().Kind)
	p.OnWorldState(penaltyState(world.Pose{X: 400, Y: 240, Orientation: 90}, keeper))
	assert.Equal(t, operation.DoNothing, p.Current().Kind, "idle after the shot")
}
