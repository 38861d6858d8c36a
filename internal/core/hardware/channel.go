// Package hardware is the boundary to the physical robots. A Channel drives
// one robot; every call blocks for as long as the action takes.
package hardware

import (
	"context"
	"errors"
)

var (
	// ErrLinkDown wraps every failure caused by the transport to the robot.
	ErrLinkDown = errors.New("robot link is down")
	// ErrRejected is returned when the robot refused a command.
	ErrRejected = errors.New("robot rejected command")
)

// Channel accepts discrete commands for a single robot. Implementations must
// serialize calls themselves; the strategy layer does not.
type Channel interface {
	Travel(ctx context.Context, distance, speed int) error
	Rotate(ctx context.Context, degrees, speed int) error
	TravelArc(ctx context.Context, radius, distance, speed int) error
	Catch(ctx context.Context) error
	Kick(ctx context.Context, power int) error
}

// Robot names the two robots on our team.
type Robot string

const (
	RobotAttacker Robot = "attacker"
	RobotDefender Robot = "defender"
)
