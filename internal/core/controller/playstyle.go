package controller

import (
	"fmt"
	"strings"
)

// PlayStyle selects which strategies run.
type PlayStyle int

const (
	Passing PlayStyle = iota
	Attacking
	Defending
	Penalty
	Match
)

var playStyleNames = map[PlayStyle]string{
	Passing:   "passing",
	Attacking: "attacking",
	Defending: "defending",
	Penalty:   "penalty",
	Match:     "match",
}

func (p PlayStyle) String() string {
	if name, ok := playStyleNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PlayStyle(%d)", int(p))
}

func (p PlayStyle) valid() bool {
	_, ok := playStyleNames[p]
	return ok
}

// ParsePlayStyle accepts the names printed by String, case insensitive.
func ParsePlayStyle(s string) (PlayStyle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for style, name := range playStyleNames {
		if name == s {
			return style, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlayStyle, s)
}
