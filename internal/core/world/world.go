// Package world describes one perception snapshot of the pitch.
package world

import (
	"math"
	"time"

	"github.com/zeusync/pitchside/internal/core/geom"
)

// MaxOrientation bounds a detected orientation in degrees. Anything beyond
// it, or not a number, is treated as not detected.
const MaxOrientation = 360

// Pose is a tracked body. Zero coordinates and a zero orientation are the
// perception sentinels for "not detected".
type Pose struct {
	X           int     `json:"x" yaml:"x"`
	Y           int     `json:"y" yaml:"y"`
	Orientation float64 `json:"orientation" yaml:"orientation"`
}

// Located reports whether the position was detected.
func (p Pose) Located() bool { return p.X != 0 && p.Y != 0 }

// Valid reports whether both position and orientation were detected.
func (p Pose) Valid() bool {
	return p.Located() && p.Orientation != 0 && math.Abs(p.Orientation) <= MaxOrientation
}

func (p Pose) Vec() geom.Vec2 { return geom.V(p.X, p.Y) }

// Heading is the orientation wrapped into (-180, 180].
func (p Pose) Heading() float64 { return geom.NormalizeDegrees(p.Orientation) }

// Point is a static pitch location such as a goal mouth.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) Vec() geom.Vec2 { return geom.V(p.X, p.Y) }

// Zone is a closed x range of the pitch.
type Zone struct{ Min, Max int }

func (z Zone) Contains(x int) bool { return x >= z.Min && x <= z.Max }
func (z Zone) Mid() int            { return (z.Min + z.Max) / 2 }

// Pitch is the static geometry of the playing field.
type Pitch struct {
	// ShootingRight is set when the goal we attack is on the right of the image.
	ShootingRight bool `json:"shooting_right" yaml:"shooting_right"`
	// Dividers are the x coordinates of the three zone boundaries, left to right.
	Dividers [3]int `json:"dividers" yaml:"dividers"`
	Top      int    `json:"top" yaml:"top"`
	Bottom   int    `json:"bottom" yaml:"bottom"`
	Left     int    `json:"left" yaml:"left"`
	Right    int    `json:"right" yaml:"right"`
	// Goal is the centre of the goal we shoot at, OwnGoal the one we defend.
	Goal    Point `json:"goal" yaml:"goal"`
	OwnGoal Point `json:"own_goal" yaml:"own_goal"`
}

// Zone indices, left to right.
func (p Pitch) zone(i int) Zone {
	switch i {
	case 0:
		return Zone{Min: p.Left, Max: p.Dividers[0]}
	case 1:
		return Zone{Min: p.Dividers[0], Max: p.Dividers[1]}
	case 2:
		return Zone{Min: p.Dividers[1], Max: p.Dividers[2]}
	default:
		return Zone{Min: p.Dividers[2], Max: p.Right}
	}
}

// DefenderZone is where our defender plays.
func (p Pitch) DefenderZone() Zone {
	if p.ShootingRight {
		return p.zone(0)
	}
	return p.zone(3)
}

// OpponentAttackZone is where the opposing attacker plays, next to our defender.
func (p Pitch) OpponentAttackZone() Zone {
	if p.ShootingRight {
		return p.zone(1)
	}
	return p.zone(2)
}

// AttackerZone is where our attacker plays.
func (p Pitch) AttackerZone() Zone {
	if p.ShootingRight {
		return p.zone(2)
	}
	return p.zone(1)
}

// CentreY is the vertical middle of the pitch.
func (p Pitch) CentreY() int { return (p.Top + p.Bottom) / 2 }

// Body names a tracked object in a State.
type Body int

const (
	BodyBall Body = iota
	BodyAttacker
	BodyDefender
	BodyTheirAttacker
	BodyTheirDefender
)

var bodyNames = [...]string{"ball", "attacker", "defender", "their_attacker", "their_defender"}

func (b Body) String() string {
	if int(b) < len(bodyNames) {
		return bodyNames[b]
	}
	return "unknown"
}

// Bodies lists every tracked body.
var Bodies = []Body{BodyBall, BodyAttacker, BodyDefender, BodyTheirAttacker, BodyTheirDefender}

// State is one full perception snapshot. It is treated as immutable once
// published.
type State struct {
	Seq           uint64    `json:"seq"`
	Captured      time.Time `json:"captured"`
	Ball          Pose      `json:"ball"`
	Attacker      Pose      `json:"attacker"`
	Defender      Pose      `json:"defender"`
	TheirAttacker Pose      `json:"their_attacker"`
	TheirDefender Pose      `json:"their_defender"`
	Pitch         Pitch     `json:"pitch"`
}

// Pose returns the pose of a body.
func (s State) Pose(b Body) Pose {
	switch b {
	case BodyBall:
		return s.Ball
	case BodyAttacker:
		return s.Attacker
	case BodyDefender:
		return s.Defender
	case BodyTheirAttacker:
		return s.TheirAttacker
	case BodyTheirDefender:
		return s.TheirDefender
	default:
		return Pose{}
	}
}

// With returns a copy with one pose replaced.
func (s State) With(b Body, p Pose) State {
	switch b {
	case BodyBall:
		s.Ball = p
	case BodyAttacker:
		s.Attacker = p
	case BodyDefender:
		s.Defender = p
	case BodyTheirAttacker:
		s.TheirAttacker = p
	case BodyTheirDefender:
		s.TheirDefender = p
	}
	return s
}
