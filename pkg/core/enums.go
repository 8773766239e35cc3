// Package core defines the records shared by the combat engine and every
// consumer of its outbound commands.
package core

import (
	"fmt"
	"strings"
)

// Location is a body location of a unit.
type Location int

const (
	Head Location = iota
	CenterTorso
	LeftTorso
	RightTorso
	LeftArm
	RightArm
	LeftLeg
	RightLeg
)

// Locations lists every location in part order.
var Locations = []Location{Head, CenterTorso, LeftTorso, RightTorso, LeftArm, RightArm, LeftLeg, RightLeg}

var locationNames = map[Location]string{
	Head:        "Head",
	CenterTorso: "CenterTorso",
	LeftTorso:   "LeftTorso",
	RightTorso:  "RightTorso",
	LeftArm:     "LeftArm",
	RightArm:    "RightArm",
	LeftLeg:     "LeftLeg",
	RightLeg:    "RightLeg",
}

var locationShort = map[Location]string{
	Head:        "HD",
	CenterTorso: "CT",
	LeftTorso:   "LT",
	RightTorso:  "RT",
	LeftArm:     "LA",
	RightArm:    "RA",
	LeftLeg:     "LL",
	RightLeg:    "RL",
}

func (l Location) String() string {
	if s, ok := locationNames[l]; ok {
		return s
	}
	return fmt.Sprintf("Location(%d)", int(l))
}

// Short returns the two letter record sheet abbreviation.
func (l Location) Short() string {
	return locationShort[l]
}

// Transfer returns the location that receives damage passing through l once
// l is destroyed. Head and CenterTorso have no transfer.
func (l Location) Transfer() (Location, bool) {
	switch l {
	case LeftArm, LeftLeg:
		return LeftTorso, true
	case RightArm, RightLeg:
		return RightTorso, true
	case LeftTorso, RightTorso:
		return CenterTorso, true
	default:
		return l, false
	}
}

func (l Location) IsArm() bool   { return l == LeftArm || l == RightArm }
func (l Location) IsLeg() bool   { return l == LeftLeg || l == RightLeg }
func (l Location) IsTorso() bool { return l == CenterTorso || l == LeftTorso || l == RightTorso }

// SlotCount returns the number of critical slots of the location.
func (l Location) SlotCount() int {
	if l == Head || l.IsLeg() {
		return 6
	}
	return 12
}

// ParseLocation accepts the full name or the short form, case-insensitive.
func ParseLocation(s string) (Location, error) {
	for l, name := range locationNames {
		if strings.EqualFold(name, s) || strings.EqualFold(locationShort[l], s) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown location: %q", s)
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(b []byte) error {
	v, err := ParseLocation(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MovementMode is the movement a unit declared for the turn.
type MovementMode int

const (
	StandingStill MovementMode = iota
	Walk
	Run
	Jump
)

var movementNames = []string{"StandingStill", "Walk", "Run", "Jump"}

func (m MovementMode) String() string {
	if int(m) < len(movementNames) && m >= 0 {
		return movementNames[m]
	}
	return fmt.Sprintf("MovementMode(%d)", int(m))
}

func (m MovementMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MovementMode) UnmarshalText(b []byte) error {
	for i, name := range movementNames {
		if strings.EqualFold(name, string(b)) {
			*m = MovementMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown movement mode: %q", string(b))
}

// AttackDirection is the side of the target an attack comes from.
type AttackDirection int

const (
	FromFront AttackDirection = iota
	FromLeft
	FromRight
	FromRear
)

var directionNames = []string{"Front", "Left", "Right", "Rear"}

func (d AttackDirection) String() string {
	if int(d) < len(directionNames) && d >= 0 {
		return directionNames[d]
	}
	return fmt.Sprintf("AttackDirection(%d)", int(d))
}

func (d AttackDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *AttackDirection) UnmarshalText(b []byte) error {
	for i, name := range directionNames {
		if strings.EqualFold(name, string(b)) {
			*d = AttackDirection(i)
			return nil
		}
	}
	return fmt.Errorf("unknown attack direction: %q", string(b))
}

// ShutdownReason records why a unit powered down.
type ShutdownReason int

const (
	ShutdownHeat ShutdownReason = iota
	ShutdownVoluntary
)

func (r ShutdownReason) String() string {
	if r == ShutdownVoluntary {
		return "Voluntary"
	}
	return "Heat"
}

func (r ShutdownReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
