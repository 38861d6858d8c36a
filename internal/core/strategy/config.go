package strategy

import "time"

// ControlConfig tunes the control loop shared by every strategy.
type ControlConfig struct {
	// Tick is the sleep between two dispatches.
	Tick time.Duration `yaml:"tick"`
	// Cooldown is the minimum gap between two catches, or two kicks.
	Cooldown time.Duration `yaml:"cooldown"`
	// StaleAfter drops operations decided longer ago than this. Zero disables.
	StaleAfter time.Duration `yaml:"stale_after"`
	// ConfuseAngle and ConfuseSpeed shape the feint before a confuse kick.
	ConfuseAngle int `yaml:"confuse_angle"`
	ConfuseSpeed int `yaml:"confuse_speed"`
}

// Motion tunes how a robot turns and drives toward a target.
type Motion struct {
	// AngleTolerance is the heading error in degrees below which the robot
	// drives instead of turning.
	AngleTolerance float64 `yaml:"angle_tolerance"`
	RotateGain     float64 `yaml:"rotate_gain"`
	RotateSpeed    int     `yaml:"rotate_speed"`
	SpeedGain      float64 `yaml:"speed_gain"`
	MinSpeed       int     `yaml:"min_speed"`
	MaxSpeed       int     `yaml:"max_speed"`
	// TravelScale converts pixels into the robot's distance unit.
	TravelScale float64 `yaml:"travel_scale"`
}

// Possession tunes catching the ball and noticing a catch that failed.
type Possession struct {
	CatchDistance float64 `yaml:"catch_distance"`
	// A carried ball seen further than SlipDistance for longer than
	// ReleaseAfter after the catch means the catch missed.
	SlipDistance float64       `yaml:"slip_distance"`
	ReleaseAfter time.Duration `yaml:"release_after"`
}

type AttackerConfig struct {
	Motion     `yaml:",inline"`
	Possession `yaml:",inline"`

	ShootDistance    float64 `yaml:"shoot_distance"`
	MoveKickDistance float64 `yaml:"move_kick_distance"`
	ArcMaxAngle      float64 `yaml:"arc_max_angle"`
	ArcMinDistance   float64 `yaml:"arc_min_distance"`
	HomeDistance     float64 `yaml:"home_distance"`
	KickPower        int     `yaml:"kick_power"`
}

type InterceptorConfig struct {
	Motion `yaml:",inline"`

	// History is how many ball positions feed the trajectory fit.
	History       int     `yaml:"history"`
	StationaryDX  float64 `yaml:"stationary_dx"`
	BandTop       float64 `yaml:"band_top"`
	BandBottom    float64 `yaml:"band_bottom"`
	CloseDistance float64 `yaml:"close_distance"`
	Damping       float64 `yaml:"damping"`
}

type PassingConfig struct {
	Motion     `yaml:",inline"`
	Possession `yaml:",inline"`

	PassPower    int     `yaml:"pass_power"`
	BlockRadius  float64 `yaml:"block_radius"`
	LaneOffset   int     `yaml:"lane_offset"`
	SpotDistance float64 `yaml:"spot_distance"`
}

type PenaltyConfig struct {
	Motion `yaml:",inline"`

	KickPower int `yaml:"kick_power"`
}

func DefaultControlConfig() ControlConfig {
	return ControlConfig{
		Tick:         400 * time.Millisecond,
		Cooldown:     time.Second,
		StaleAfter:   2 * time.Second,
		ConfuseAngle: 25,
		ConfuseSpeed: 200,
	}
}

func DefaultMotion() Motion {
	return Motion{
		AngleTolerance: 11.25,
		RotateGain:     0.8,
		RotateSpeed:    90,
		SpeedGain:      2,
		MinSpeed:       20,
		MaxSpeed:       400,
		TravelScale:    1,
	}
}

func DefaultPossession() Possession {
	return Possession{
		CatchDistance: 30,
		SlipDistance:  60,
		ReleaseAfter:  3 * time.Second,
	}
}

func DefaultAttackerConfig() AttackerConfig {
	return AttackerConfig{
		Motion:           DefaultMotion(),
		Possession:       DefaultPossession(),
		ShootDistance:    120,
		MoveKickDistance: 200,
		ArcMaxAngle:      45,
		ArcMinDistance:   150,
		HomeDistance:     20,
		KickPower:        700,
	}
}

func DefaultInterceptorConfig() InterceptorConfig {
	return InterceptorConfig{
		Motion:        DefaultMotion(),
		History:       3,
		StationaryDX:  10,
		BandTop:       157,
		BandBottom:    315,
		CloseDistance: 10,
		Damping:       0.9,
	}
}

func DefaultPassingConfig() PassingConfig {
	return PassingConfig{
		Motion:       DefaultMotion(),
		Possession:   DefaultPossession(),
		PassPower:    500,
		BlockRadius:  25,
		LaneOffset:   60,
		SpotDistance: 20,
	}
}

func DefaultPenaltyConfig() PenaltyConfig {
	return PenaltyConfig{
		Motion:    DefaultMotion(),
		KickPower: 900,
	}
}
