package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/pitchside/internal/core/hardware/hardwaretest"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

func newTestInterceptor() *Interceptor {
	return NewInterceptor(hardwaretest.NewRecorder(), testControl(), DefaultInterceptorConfig(), quiet(newManualClock())...)
}

func feed(i *Interceptor, defender world.Pose, balls ...world.Pose) operation.Operation {
	for _, b := range balls {
		i.OnWorldState(world.State{Ball: b, Defender: defender, Pitch: testPitch()})
	}
	return i.Current()
}

func TestInterceptorIgnoresStationaryBall(t *testing.T) {
	defender := world.Pose{X: 50, Y: 200, Orientation: 90}
	ball := world.Pose{X: 10, Y: 100}

	op := feed(newTestInterceptor(), defender, ball, ball, ball)
	assert.Equal(t, operation.DoNothing, op.Kind)
}

func TestInterceptorIgnoresVerticalTrack(t *testing.T) {
	defender := world.Pose{X: 50, Y: 200, Orientation: 90}

	op := feed(newTestInterceptor(), defender,
		world.Pose{X: 0, Y: 50}, world.Pose{X: 0, Y: 150}, world.Pose{X: 0, Y: 250})
	assert.Equal(t, operation.DoNothing, op.Kind)

	op = feed(newTestInterceptor(), defender,
		world.Pose{X: 300, Y: 50}, world.Pose{X: 302, Y: 150}, world.Pose{X: 305, Y: 250})
	assert.Equal(t, operation.DoNothing, op.Kind)
}

func TestInterceptorFollowsTrajectory(t *testing.T) {
	track := []world.Pose{{X: 350, Y: 50}, {X: 250, Y: 150}, {X: 150, Y: 250}}

	tests := []struct {
		name     string
		defender world.Pose
		want     operation.Operation
	}{
		{
			name:     "facing down drives forward to the band edge",
			defender: world.Pose{X: 50, Y: 200, Orientation: 90},
			want:     operation.NewTravel(104, 207),
		},
		{
			name:     "facing up reverses",
			defender: world.Pose{X: 50, Y: 200, Orientation: -90},
			want:     operation.NewTravel(-104, 207),
		},
		{
			name:     "sideways turns first",
			defender: world.Pose{X: 50, Y: 200, Orientation: 1},
			want:     operation.NewRotate(71, 90),
		},
		{
			name:     "already on the line",
			defender: world.Pose{X: 50, Y: 310, Orientation: 90},
			want:     operation.Nothing(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := feed(newTestInterceptor(), tt.defender, track...)
			assert.True(t, tt.want.Same(op), "got %s", op)
			assert.False(t, op.Irreversible())
		})
	}
}

func TestInterceptorUsesOnlyRecentHistory(t *testing.T) {
	i := newTestInterceptor()
	defender := world.Pose{X: 50, Y: 200, Orientation: 90}

	op := feed(i, defender,
		world.Pose{X: 350, Y: 50}, world.Pose{X: 250, Y: 150}, world.Pose{X: 150, Y: 250},
		world.Pose{X: 150, Y: 250}, world.Pose{X: 150, Y: 250})
	assert.Equal(t, operation.DoNothing, op.Kind)
}
