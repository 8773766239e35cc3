package unit

import (
	"fmt"
	"strings"
)

// ComponentKind is the closed set of equipment that can occupy a slot.
type ComponentKind int

const (
	Weapon ComponentKind = iota + 1
	Ammo
	HeatSink
	Engine
	Gyro
	Cockpit
	Sensors
	LifeSupport
	Shoulder
	UpperArmActuator
	LowerArmActuator
	HandActuator
	Hip
	UpperLegActuator
	LowerLegActuator
	FootActuator
	JumpJet
	CASE
)

var kindNames = map[ComponentKind]string{
	Weapon:           "Weapon",
	Ammo:             "Ammo",
	HeatSink:         "HeatSink",
	Engine:           "Engine",
	Gyro:             "Gyro",
	Cockpit:          "Cockpit",
	Sensors:          "Sensors",
	LifeSupport:      "LifeSupport",
	Shoulder:         "Shoulder",
	UpperArmActuator: "UpperArmActuator",
	LowerArmActuator: "LowerArmActuator",
	HandActuator:     "HandActuator",
	Hip:              "Hip",
	UpperLegActuator: "UpperLegActuator",
	LowerLegActuator: "LowerLegActuator",
	FootActuator:     "FootActuator",
	JumpJet:          "JumpJet",
	CASE:             "CASE",
}

func (k ComponentKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ComponentKind(%d)", int(k))
}

// ParseComponentKind parses a kind name, case-insensitive.
func ParseComponentKind(s string) (ComponentKind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown component kind: %q", s)
}

// HitsToDestroy is the number of critical hits the kind absorbs before it
// stops working.
func (k ComponentKind) HitsToDestroy() int {
	switch k {
	case Engine:
		return 3
	case Gyro, Sensors:
		return 2
	default:
		return 1
	}
}

// IsLegActuator reports whether a hit on the kind affects the unit's footing.
func (k ComponentKind) IsLegActuator() bool {
	switch k {
	case Hip, UpperLegActuator, LowerLegActuator, FootActuator:
		return true
	}
	return false
}

// IsArmActuator reports whether the kind is part of an arm.
func (k ComponentKind) IsArmActuator() bool {
	switch k {
	case Shoulder, UpperArmActuator, LowerArmActuator, HandActuator:
		return true
	}
	return false
}

// WeaponKind is the closed set of weapon families.
type WeaponKind int

const (
	Energy WeaponKind = iota + 1
	Ballistic
	Missile
	Flamer
)

var weaponKindNames = map[WeaponKind]string{
	Energy:    "Energy",
	Ballistic: "Ballistic",
	Missile:   "Missile",
	Flamer:    "Flamer",
}

func (k WeaponKind) String() string {
	if s, ok := weaponKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("WeaponKind(%d)", int(k))
}

// ParseWeaponKind parses a weapon kind name, case-insensitive.
func ParseWeaponKind(s string) (WeaponKind, error) {
	for k, name := range weaponKindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown weapon kind: %q", s)
}

// WeaponStats are the firing characteristics of a weapon.
type WeaponStats struct {
	Kind          WeaponKind
	Damage        int // per missile for cluster weapons
	Heat          int
	MinRange      int
	ShortRange    int
	MediumRange   int
	LongRange     int
	ToHitModifier int
	// RackSize is the number of missiles fired per shot. Values above one make
	// the weapon roll on the cluster table.
	RackSize int
	// ClusterSize is the number of missiles that share one hit location.
	ClusterSize     int
	AmmoType        string
	ExternalHeat    int
	ExplosionDamage int // non-zero for weapons that explode when hit
}

// IsCluster reports whether the weapon rolls on the cluster table.
func (w *WeaponStats) IsCluster() bool {
	return w.RackSize > 1
}

// AmmoStats describe an ammunition bin.
type AmmoStats struct {
	AmmoType      string
	Shots         int
	DamagePerShot int
	Inert         bool // bins that cannot explode
}

// Component is equipment mounted in one or more slots of a part.
type Component struct {
	ID          string
	Name        string
	Kind        ComponentKind
	Slots       []int
	Hits        int
	Destroyed   bool
	HasExploded bool
	Weapon      *WeaponStats
	Ammo        *AmmoStats
}

// NewComponent creates a component of the given kind.
func NewComponent(name string, kind ComponentKind) *Component {
	return &Component{Name: name, Kind: kind}
}

// NewWeapon creates a weapon component.
func NewWeapon(name string, stats WeaponStats) *Component {
	return &Component{Name: name, Kind: Weapon, Weapon: &stats}
}

// NewAmmo creates an ammunition bin.
func NewAmmo(name string, stats AmmoStats) *Component {
	return &Component{Name: name, Kind: Ammo, Ammo: &stats}
}

// Hit records a critical hit. It returns true if the hit destroyed the component.
func (c *Component) Hit() bool {
	c.Hits++
	if !c.Destroyed && c.Hits >= c.Kind.HitsToDestroy() {
		c.Destroyed = true
		return true
	}
	return false
}

// ExplosionDamage is the damage the component deals if it explodes now.
func (c *Component) ExplosionDamage() int {
	if c.HasExploded {
		return 0
	}
	switch {
	case c.Kind == Ammo && c.Ammo != nil && !c.Ammo.Inert:
		return c.Ammo.Shots * c.Ammo.DamagePerShot
	case c.Kind == Weapon && c.Weapon != nil:
		return c.Weapon.ExplosionDamage
	}
	return 0
}

// CanExplode reports whether a hit on the component would cause an explosion.
func (c *Component) CanExplode() bool {
	return c.ExplosionDamage() > 0
}

// Explode marks the component as exploded and returns the damage dealt. A
// component explodes at most once.
func (c *Component) Explode() int {
	dmg := c.ExplosionDamage()
	if dmg == 0 {
		return 0
	}
	c.HasExploded = true
	c.Destroyed = true
	if c.Ammo != nil {
		c.Ammo.Shots = 0
	}
	return dmg
}
