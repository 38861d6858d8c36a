// Package config loads the engine configuration from YAML and keeps it
// current while the engine runs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/strategy"
	"github.com/zeusync/pitchside/internal/core/world"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is an immutable snapshot once loaded. Replace it, never mutate it.
type Config struct {
	Log         LogConfig                  `yaml:"log"`
	Pitch       world.Pitch                `yaml:"pitch"`
	Control     strategy.ControlConfig     `yaml:"control"`
	Controller  ControllerConfig           `yaml:"controller"`
	Attacker    strategy.AttackerConfig    `yaml:"attacker"`
	Interceptor strategy.InterceptorConfig `yaml:"interceptor"`
	Passing     strategy.PassingConfig     `yaml:"passing"`
	Penalty     strategy.PenaltyConfig     `yaml:"penalty"`
	Perception  PerceptionConfig           `yaml:"perception"`
	Robots      RobotsConfig               `yaml:"robots"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type ControllerConfig struct {
	// Style is the play style started with the engine.
	Style string `yaml:"style"`
	// StopTimeout bounds the wait for a stopped strategy's control loop.
	StopTimeout time.Duration `yaml:"stop_timeout"`
}

type PerceptionConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`
	// WatchInterval is how often the config file is checked for changes.
	WatchInterval time.Duration `yaml:"watch_interval"`
}

type RobotLink struct {
	Addr           string        `yaml:"addr"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

type RobotsConfig struct {
	Attacker RobotLink `yaml:"attacker"`
	Defender RobotLink `yaml:"defender"`
	// DryRun replaces the robot links with channels that only log.
	DryRun             bool `yaml:"dry_run"`
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Default returns the calibrated defaults for the reference pitch.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Encoding: "json"},
		Pitch: world.Pitch{
			ShootingRight: true,
			Dividers:      [3]int{150, 300, 450},
			Top:           20,
			Bottom:        460,
			Left:          10,
			Right:         590,
			Goal:          world.Point{X: 590, Y: 240},
			OwnGoal:       world.Point{X: 10, Y: 240},
		},
		Control:     strategy.DefaultControlConfig(),
		Controller:  ControllerConfig{Style: "match", StopTimeout: 3 * time.Second},
		Attacker:    strategy.DefaultAttackerConfig(),
		Interceptor: strategy.DefaultInterceptorConfig(),
		Passing:     strategy.DefaultPassingConfig(),
		Penalty:     strategy.DefaultPenaltyConfig(),
		Perception: PerceptionConfig{
			ListenAddr:    "127.0.0.1:8090",
			Path:          "/world",
			WatchInterval: 2 * time.Second,
		},
		Robots: RobotsConfig{
			Attacker: RobotLink{Addr: "127.0.0.1:7401", CommandTimeout: 5 * time.Second},
			Defender: RobotLink{Addr: "127.0.0.1:7402", CommandTimeout: 5 * time.Second},
		},
	}
}

// Load reads a YAML file and overlays it on the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		c := Default()
		return c, c.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports every problem found, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	p := c.Pitch
	check(p.Left < p.Dividers[0] && p.Dividers[0] < p.Dividers[1] &&
		p.Dividers[1] < p.Dividers[2] && p.Dividers[2] < p.Right,
		"pitch: left, dividers and right must increase, got %d %v %d", p.Left, p.Dividers, p.Right)
	check(p.Top < p.Bottom, "pitch: top %d must be above bottom %d", p.Top, p.Bottom)
	check(p.Goal.X != 0 && p.Goal.Y != 0, "pitch: goal must be set")

	check(c.Control.Tick > 0, "control: tick must be positive")
	check(c.Control.Cooldown >= 0, "control: cooldown must not be negative")
	check(c.Control.StaleAfter >= 0, "control: stale_after must not be negative")
	check(c.Controller.StopTimeout > 0, "controller: stop_timeout must be positive")

	for name, m := range map[string]strategy.Motion{
		"attacker":    c.Attacker.Motion,
		"interceptor": c.Interceptor.Motion,
		"passing":     c.Passing.Motion,
		"penalty":     c.Penalty.Motion,
	} {
		check(m.AngleTolerance > 0 && m.AngleTolerance < 180, "%s: angle_tolerance must be in (0, 180)", name)
		check(m.MinSpeed <= m.MaxSpeed, "%s: min_speed above max_speed", name)
		check(m.TravelScale > 0, "%s: travel_scale must be positive", name)
	}

	check(c.Attacker.ShootDistance <= c.Attacker.MoveKickDistance, "attacker: shoot_distance above move_kick_distance")
	check(c.Attacker.CatchDistance > 0, "attacker: catch_distance must be positive")
	check(c.Attacker.ArcMaxAngle >= 0 && c.Attacker.ArcMaxAngle < 180, "attacker: arc_max_angle must be in [0, 180)")
	check(c.Attacker.ArcMinDistance >= 0, "attacker: arc_min_distance must not be negative")
	check(c.Interceptor.StationaryDX >= 0, "interceptor: stationary_dx must not be negative")
	check(c.Interceptor.Damping > 0 && c.Interceptor.Damping <= 1, "interceptor: damping must be in (0, 1]")
	check(c.Interceptor.History >= 2, "interceptor: history needs at least 2 samples")
	check(c.Interceptor.BandTop < c.Interceptor.BandBottom, "interceptor: band_top must be above band_bottom")
	check(c.Passing.CatchDistance > 0, "passing: catch_distance must be positive")

	check(c.Perception.ListenAddr != "", "perception: listen_addr is required")
	check(c.Perception.WatchInterval >= 0, "perception: watch_interval must not be negative")
	if !c.Robots.DryRun {
		check(c.Robots.Attacker.Addr != "", "robots: attacker addr is required")
		check(c.Robots.Defender.Addr != "", "robots: defender addr is required")
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
}

// LogOptions maps the log section onto logger options.
func (c *Config) LogOptions() log.Options {
	return log.Options{Level: log.ParseLevel(c.Log.Level), Encoding: c.Log.Encoding}
}
