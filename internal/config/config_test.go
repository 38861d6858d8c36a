package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/pitchside/internal/core/observability/log"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	c, err := Parse([]byte(`
log:
  level: debug
pitch:
  shooting_right: false
  dividers: [120, 280, 440]
control:
  tick: 250ms
  stale_after: 0s
attacker:
  angle_tolerance: 8
  catch_distance: 25
  release_after: 2s
robots:
  dry_run: true
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)
	assert.False(t, c.Pitch.ShootingRight)
	assert.Equal(t, [3]int{120, 280, 440}, c.Pitch.Dividers)
	assert.Equal(t, 590, c.Pitch.Right, "untouched keys keep their default")
	assert.Equal(t, 250*time.Millisecond, c.Control.Tick)
	assert.Zero(t, c.Control.StaleAfter)
	assert.Equal(t, time.Second, c.Control.Cooldown)
	assert.Equal(t, 8.0, c.Attacker.AngleTolerance)
	assert.Equal(t, 25.0, c.Attacker.CatchDistance)
	assert.Equal(t, 2*time.Second, c.Attacker.ReleaseAfter)
	assert.Equal(t, 0.8, c.Attacker.RotateGain)
	assert.True(t, c.Robots.DryRun)
	assert.Equal(t, log.LevelDebug, c.LogOptions().Level)
}

func TestParseEmptyDocument(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("control:\n  tik: 1s\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := Default()
	c.Pitch.Dividers = [3]int{300, 200, 100}
	c.Control.Tick = 0
	c.Interceptor.BandTop = 400
	c.Robots.Attacker.Addr = ""

	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"dividers", "tick", "band_top", "attacker addr"} {
		assert.Contains(t, err.Error(), want)
	}

	c.Robots.DryRun = true
	c.Pitch = Default().Pitch
	c.Control.Tick = time.Second
	c.Interceptor.BandTop = 100
	assert.NoError(t, c.Validate())
}

func TestValidateStrategyRanges(t *testing.T) {
	cases := []struct {
		name  string
		apply func(*Config)
		want  string
	}{
		{name: "half turn arc", apply: func(c *Config) { c.Attacker.ArcMaxAngle = 180 }, want: "arc_max_angle"},
		{name: "negative arc", apply: func(c *Config) { c.Attacker.ArcMaxAngle = -1 }, want: "arc_max_angle"},
		{name: "zero damping", apply: func(c *Config) { c.Interceptor.Damping = 0 }, want: "damping"},
		{name: "overshooting damping", apply: func(c *Config) { c.Interceptor.Damping = 1.5 }, want: "damping"},
		{name: "negative stationary dx", apply: func(c *Config) { c.Interceptor.StationaryDX = -5 }, want: "stationary_dx"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.apply(c)
			err := c.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	c := Default()
	c.Interceptor.Damping = 1
	c.Attacker.ArcMaxAngle = 179
	assert.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitchside.yaml")
	require.NoError(t, os.WriteFile(path, []byte("controller:\n  style: passing\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "passing", c.Controller.Style)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "match", c.Controller.Style)
}
