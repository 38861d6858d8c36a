// Package operation defines the actuation intents exchanged between a
// strategy's decision function and its control loop.
package operation

import (
	"fmt"
	"time"
)

// Kind tags an Operation.
type Kind uint8

const (
	DoNothing Kind = iota
	Travel
	Rotate
	TravelArc
	Catch
	Kick
	MoveThenKick
	ConfuseKickLeft
	ConfuseKickRight
)

func (k Kind) String() string {
	switch k {
	case DoNothing:
		return "do_nothing"
	case Travel:
		return "travel"
	case Rotate:
		return "rotate"
	case TravelArc:
		return "travel_arc"
	case Catch:
		return "catch"
	case Kick:
		return "kick"
	case MoveThenKick:
		return "move_then_kick"
	case ConfuseKickLeft:
		return "confuse_kick_left"
	case ConfuseKickRight:
		return "confuse_kick_right"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Operation is one discrete actuation intent. Only the fields relevant to
// Kind are meaningful; the rest stay zero.
type Operation struct {
	Kind     Kind
	Distance int // travel distance, signed, positive is forward
	Speed    int
	Degrees  int // rotation, signed
	Radius   int // arc radius, signed, positive turns toward increasing heading
	Power    int // kick power

	// DecidedAt is stamped by the owning strategy when the operation is
	// written into its slot.
	DecidedAt time.Time
}

func Nothing() Operation { return Operation{Kind: DoNothing} }

func NewTravel(distance, speed int) Operation {
	return Operation{Kind: Travel, Distance: distance, Speed: speed}
}

func NewRotate(degrees, speed int) Operation {
	return Operation{Kind: Rotate, Degrees: degrees, Speed: speed}
}

func NewTravelArc(radius, distance, speed int) Operation {
	return Operation{Kind: TravelArc, Radius: radius, Distance: distance, Speed: speed}
}

func NewCatch() Operation { return Operation{Kind: Catch} }

func NewKick(power int) Operation { return Operation{Kind: Kick, Power: power} }

func NewMoveThenKick(distance, speed, power int) Operation {
	return Operation{Kind: MoveThenKick, Distance: distance, Speed: speed, Power: power}
}

func NewConfuseKick(left bool, power int) Operation {
	if left {
		return Operation{Kind: ConfuseKickLeft, Power: power}
	}
	return Operation{Kind: ConfuseKickRight, Power: power}
}

// Irreversible reports whether the operation is a physical action that must
// not be re-issued while a previous one is settling.
func (o Operation) Irreversible() bool {
	switch o.Kind {
	case Catch, Kick, MoveThenKick, ConfuseKickLeft, ConfuseKickRight:
		return true
	default:
		return false
	}
}

// Kicks reports whether the operation ends with the kicker firing.
func (o Operation) Kicks() bool {
	switch o.Kind {
	case Kick, MoveThenKick, ConfuseKickLeft, ConfuseKickRight:
		return true
	default:
		return false
	}
}

// Same compares the intent, ignoring the decision timestamp.
func (o Operation) Same(other Operation) bool {
	o.DecidedAt, other.DecidedAt = time.Time{}, time.Time{}
	return o == other
}

func (o Operation) String() string {
	switch o.Kind {
	case Travel:
		return fmt.Sprintf("travel(distance=%d, speed=%d)", o.Distance, o.Speed)
	case Rotate:
		return fmt.Sprintf("rotate(degrees=%d, speed=%d)", o.Degrees, o.Speed)
	case TravelArc:
		return fmt.Sprintf("travel_arc(radius=%d, distance=%d, speed=%d)", o.Radius, o.Distance, o.Speed)
	case Kick, ConfuseKickLeft, ConfuseKickRight:
		return fmt.Sprintf("%s(power=%d)", o.Kind, o.Power)
	case MoveThenKick:
		return fmt.Sprintf("move_then_kick(distance=%d, speed=%d, power=%d)", o.Distance, o.Speed, o.Power)
	default:
		return o.Kind.String()
	}
}
