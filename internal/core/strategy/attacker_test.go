package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/pitchside/internal/core/hardware/hardwaretest"
	"github.com/zeusync/pitchside/internal/core/operation"
	"github.com/zeusync/pitchside/internal/core/world"
)

func newTestAttacker() (*Attacker, *hardwaretest.Recorder, *manualClock) {
	rec := hardwaretest.NewRecorder()
	clock := newManualClock()
	return NewAttacker(rec, testControl(), DefaultAttackerConfig(), quiet(clock)...), rec, clock
}

func attackerState(robot, ball world.Pose) world.State {
	return world.State{Attacker: robot, Ball: ball, Pitch: testPitch()}
}

// catchBall drives a fresh attacker through a dispatched catch.
func catchBall(t *testing.T, a *Attacker, rec *hardwaretest.Recorder, robot world.Pose) {
	t.Helper()
	ball := world.Pose{X: robot.X + 10, Y: robot.Y}

	a.OnWorldState(attackerState(robot, ball))
	require.Equal(t, operation.Catch, a.Current().Kind)
	a.step(context.Background())
	require.Equal(t, 1, rec.Count("catch"))
}

func TestAttackerIsIdempotent(t *testing.T) {
	a, _, _ := newTestAttacker()
	ws := attackerState(world.Pose{X: 320, Y: 240, Orientation: 1}, world.Pose{X: 420, Y: 300})

	a.OnWorldState(ws)
	first := a.Current()
	a.OnWorldState(ws)

	assert.True(t, first.Same(a.Current()))
}

func TestAttackerChasesBall(t *testing.T) {
	a, _, _ := newTestAttacker()

	a.OnWorldState(attackerState(world.Pose{X: 320, Y: 240, Orientation: 90}, world.Pose{X: 420, Y: 240}))
	op := a.Current()
	assert.Equal(t, operation.Rotate, op.Kind)
	assert.Less(t, op.Degrees, 0)

	a.OnWorldState(attackerState(world.Pose{X: 320, Y: 240, Orientation: 1}, world.Pose{X: 420, Y: 240}))
	op = a.Current()
	assert.Equal(t, operation.Travel, op.Kind)
	assert.Equal(t, 70, op.Distance)
}

func TestAttackerGoesHomeWhenBallInOpponentZone(t *testing.T) {
	a, _, _ := newTestAttacker()
	ball := world.Pose{X: 200, Y: 240}

	a.OnWorldState(attackerState(world.Pose{X: 420, Y: 240, Orientation: 180}, ball))
	op := a.Current()
	assert.Equal(t, operation.Travel, op.Kind)
	assert.Equal(t, 25, op.Distance)

	a.OnWorldState(attackerState(world.Pose{X: 380, Y: 240, Orientation: 180}, ball))
	assert.Equal(t, operation.DoNothing, a.Current().Kind)
}

func TestAttackerCatchesThenShoots(t *testing.T) {
	a, rec, _ := newTestAttacker()
	robot := world.Pose{X: 480, Y: 240, Orientation: 1}
	catchBall(t, a, rec, robot)

	a.OnWorldState(attackerState(robot, world.Pose{X: 490, Y: 240}))
	op := a.Current()
	assert.Equal(t, operation.Kick, op.Kind)
	assert.Equal(t, 700, op.Power)

	a.step(context.Background())
	assert.Equal(t, 1, rec.Count("kick"))

	a.OnWorldState(attackerState(robot, world.Pose{X: 560, Y: 240}))
	assert.Equal(t, operation.Travel, a.Current().Kind, "back to chasing after the shot")
}

func TestAttackerMovesThenKicks(t *testing.T) {
	a, rec, _ := newTestAttacker()
	robot := world.Pose{X: 430, Y: 240, Orientation: 1}
	catchBall(t, a, rec, robot)

	a.OnWorldState(attackerState(robot, world.Pose{X: 440, Y: 240}))
	op := a.Current()
	assert.Equal(t, operation.MoveThenKick, op.Kind)
	assert.Equal(t, 40, op.Distance)
}

func TestAttackerCarriesTowardGoal(t *testing.T) {
	a, rec, _ := newTestAttacker()
	catchBall(t, a, rec, world.Pose{X: 300, Y: 240, Orientation: 1})

	a.OnWorldState(attackerState(world.Pose{X: 300, Y: 240, Orientation: 1}, world.Pose{X: 310, Y: 240}))
	op := a.Current()
	assert.Equal(t, operation.Travel, op.Kind)
	assert.Equal(t, 170, op.Distance)

	a.OnWorldState(attackerState(world.Pose{X: 300, Y: 240, Orientation: 20}, world.Pose{X: 310, Y: 240}))
	op = a.Current()
	assert.Equal(t, operation.TravelArc, op.Kind)
	assert.Less(t, op.Radius, 0)
	assert.Positive(t, op.Distance)

	a.OnWorldState(attackerState(world.Pose{X: 300, Y: 240, Orientation: 90}, world.Pose{X: 310, Y: 240}))
	op = a.Current()
	assert.Equal(t, operation.Rotate, op.Kind)
	assert.Equal(t, -72, op.Degrees)
}

func TestAttackerReleasesFalseCatch(t *testing.T) {
	a, rec, clock := newTestAttacker()
	robot := world.Pose{X: 300, Y: 240, Orientation: 1}
	catchBall(t, a, rec, robot)

	lost := world.Pose{X: 450, Y: 400}

	clock.Advance(time.Second)
	a.OnWorldState(attackerState(robot, lost))
	assert.NotEqual(t, operation.Kick, a.Current().Kind, "still inside the grace period")

	clock.Advance(2500 * time.Millisecond)
	a.OnWorldState(attackerState(robot, lost))
	op := a.Current()
	assert.Equal(t, operation.Kick, op.Kind)
	assert.Equal(t, 700, op.Power)
}

func TestAttackerForgetsEscapedBall(t *testing.T) {
	a, _, _ := newTestAttacker()
	robot := world.Pose{X: 320, Y: 240, Orientation: 1}

	a.OnWorldState(attackerState(robot, world.Pose{X: 330, Y: 240}))
	require.Equal(t, operation.Catch, a.Current().Kind)

	a.OnWorldState(attackerState(robot, world.Pose{X: 440, Y: 240}))
	assert.Equal(t, operation.Travel, a.Current().Kind)
}

func TestAttackerIgnoresCatchInFlight(t *testing.T) {
	a, rec, _ := newTestAttacker()
	robot := world.Pose{X: 480, Y: 240, Orientation: 1}
	ws := attackerState(robot, world.Pose{X: 490, Y: 240})

	rec.Fail(1)
	rec.SetDelay(100 * time.Millisecond)
	a.OnWorldState(ws)
	require.Equal(t, operation.Catch, a.Current().Kind)

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.step(context.Background())
	}()

	select {
	case call := <-rec.Notify():
		require.Equal(t, "catch", call.Command)
	case <-time.After(time.Second):
		t.Fatal("catch was never sent")
	}

	a.OnWorldState(ws)
	assert.Equal(t, operation.Catch, a.Current().Kind, "catch not acknowledged yet")

	<-done
	a.OnWorldState(ws)
	assert.Equal(t, operation.Catch, a.Current().Kind, "failed catch must be retried, not released")
	assert.Equal(t, uint64(1), a.Stats().Failed)
	assert.Zero(t, rec.Count("kick"))

	rec.SetDelay(0)
	a.step(context.Background())
	assert.Equal(t, 2, rec.Count("catch"))

	a.OnWorldState(ws)
	assert.Equal(t, operation.Kick, a.Current().Kind)
}

func TestAttackerSurvivesHugeOrientation(t *testing.T) {
	a, _, _ := newTestAttacker()
	require.NoError(t, a.Start(context.Background()))

	decided := make(chan struct{})
	go func() {
		defer close(decided)
		a.OnWorldState(attackerState(world.Pose{X: 320, Y: 240, Orientation: 1e20}, world.Pose{X: 420, Y: 240}))
	}()
	select {
	case <-decided:
	case <-time.After(time.Second):
		t.Fatal("decision did not return")
	}
	assert.Equal(t, operation.DoNothing, a.Current().Kind)

	a.Stop()
	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("control loop did not exit")
	}
}
