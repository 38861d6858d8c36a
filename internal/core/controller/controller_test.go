package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/pitchside/internal/config"
	"github.com/zeusync/pitchside/internal/core/hardware/hardwaretest"
	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/perception"
	"github.com/zeusync/pitchside/internal/core/world"
)

type fixture struct {
	feed     *perception.Feed
	attacker *hardwaretest.Recorder
	defender *hardwaretest.Recorder
	provider *config.Provider
	ctrl     *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Control.Tick = 5 * time.Millisecond
	cfg.Control.StaleAfter = 0
	cfg.Controller.StopTimeout = time.Second

	f := &fixture{
		feed:     perception.NewFeed(),
		attacker: hardwaretest.NewRecorder(),
		defender: hardwaretest.NewRecorder(),
		provider: config.NewProvider(cfg),
	}
	f.feed.SetPitch(cfg.Pitch)
	f.ctrl = New(f.feed, Robots{Attacker: f.attacker, Defender: f.defender}, f.provider, log.NewNop())
	t.Cleanup(func() { _ = f.ctrl.Shutdown(context.Background()) })
	return f
}

func waitFor(t *testing.T, rec *hardwaretest.Recorder, command string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case c := <-rec.Notify():
			if c.Command == command {
				return
			}
		case <-deadline:
			t.Fatalf("no %s dispatched", command)
		}
	}
}

func TestPlayStyles(t *testing.T) {
	tests := []struct {
		style PlayStyle
		want  []string
	}{
		{Passing, []string{"passer", "receiver"}},
		{Attacking, []string{"attacker"}},
		{Defending, []string{"interceptor"}},
		{Penalty, []string{"penalty"}},
		{Match, []string{"attacker", "interceptor"}},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			require.NoError(t, f.ctrl.SwitchTo(context.Background(), tt.style))
			assert.ElementsMatch(t, tt.want, f.ctrl.Active())
			assert.Equal(t, len(tt.want), f.feed.Subscribers())

			style, ok := f.ctrl.Style()
			assert.True(t, ok)
			assert.Equal(t, tt.style, style)
		})
	}
}

func TestUnknownPlayStyle(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ctrl.SwitchTo(context.Background(), PlayStyle(42)), ErrUnknownPlayStyle)

	_, err := ParsePlayStyle("tiki-taka")
	assert.ErrorIs(t, err, ErrUnknownPlayStyle)

	style, err := ParsePlayStyle(" Defending ")
	require.NoError(t, err)
	assert.Equal(t, Defending, style)
}

func TestSwitchStopsOldLoopFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.SwitchTo(ctx, Attacking))
	old := f.ctrl.active[0].strategy

	f.feed.Publish(world.State{
		Ball:     world.Pose{X: 420, Y: 240},
		Attacker: world.Pose{X: 320, Y: 240, Orientation: 1},
	})
	waitFor(t, f.attacker, "travel")

	require.NoError(t, f.ctrl.SwitchTo(ctx, Defending))

	select {
	case <-old.Done():
	default:
		t.Fatal("attacker loop still running after the switch")
	}
	assert.Equal(t, []string{"interceptor"}, f.ctrl.Active())
	assert.Equal(t, 1, f.feed.Subscribers())

	dispatched := old.Stats().Dispatched
	before := f.attacker.Count("travel")

	defender := world.Pose{X: 50, Y: 200, Orientation: 90}
	for i, ball := range []world.Pose{{X: 350, Y: 50}, {X: 250, Y: 150}, {X: 150, Y: 250}} {
		f.feed.Publish(world.State{Seq: uint64(i + 1), Ball: ball, Defender: defender, Attacker: world.Pose{X: 320, Y: 240, Orientation: 1}})
	}
	waitFor(t, f.defender, "travel")

	assert.Equal(t, dispatched, old.Stats().Dispatched)
	assert.Equal(t, before, f.attacker.Count("travel"), "the stopped attacker must not move again")
}

func TestSwitchFailsWhenLoopOverruns(t *testing.T) {
	f := newFixture(t)
	cfg := *f.provider.Current()
	cfg.Controller.StopTimeout = 20 * time.Millisecond
	f.provider.Store(&cfg)
	f.attacker.SetDelay(300 * time.Millisecond)

	require.NoError(t, f.ctrl.SwitchTo(context.Background(), Attacking))
	f.feed.Publish(world.State{
		Ball:     world.Pose{X: 420, Y: 240},
		Attacker: world.Pose{X: 320, Y: 240, Orientation: 1},
	})
	waitFor(t, f.attacker, "travel")

	err := f.ctrl.SwitchTo(context.Background(), Defending)
	assert.ErrorIs(t, err, ErrStopTimeout)
	assert.Empty(t, f.ctrl.Active())
	assert.Zero(t, f.defender.Count("travel"))
}

func TestConcurrentSwitchesLeaveOneStyle(t *testing.T) {
	f := newFixture(t)
	styles := []PlayStyle{Passing, Attacking, Defending, Penalty, Match}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.ctrl.SwitchTo(context.Background(), styles[i%len(styles)]))
		}()
	}
	wg.Wait()

	style, ok := f.ctrl.Style()
	require.True(t, ok)
	want := map[PlayStyle]int{Passing: 2, Attacking: 1, Defending: 1, Penalty: 1, Match: 2}[style]
	assert.Len(t, f.ctrl.Active(), want)
	assert.Equal(t, want, f.feed.Subscribers())
}

func TestShutdown(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.SwitchTo(context.Background(), Match))
	require.NoError(t, f.ctrl.Shutdown(context.Background()))

	assert.Empty(t, f.ctrl.Active())
	assert.Zero(t, f.feed.Subscribers())
	_, ok := f.ctrl.Style()
	assert.False(t, ok)
}

func TestSwitchAfterShutdownIsRefused(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Shutdown(context.Background()))

	err := f.ctrl.SwitchTo(context.Background(), Attacking)
	assert.ErrorIs(t, err, ErrShutdown)
	assert.Empty(t, f.ctrl.Active())
	assert.Zero(t, f.feed.Subscribers())
}
