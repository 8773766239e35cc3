// Package unit models combat units: their parts, mounted components and pilot.
package unit

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/pkg/core"
)

// Movement is what a unit did during the movement phase of the current turn.
type Movement struct {
	Mode       core.MovementMode
	HexesMoved int
	MPUsed     int
	Done       bool
}

// Unit is a combat unit. It owns its parts and pilot exclusively; other units
// refer to it by ID through a Registry.
type Unit struct {
	ID              uuid.UUID
	Owner           uuid.UUID
	Name            string
	Tonnage         int
	WalkMP          int
	JumpMP          int
	EngineHeatSinks int
	DoubleHeatSinks bool
	Pilot           *Pilot

	Position     battlemap.Coord
	Facing       battlemap.Facing
	Deployed     bool
	Prone        bool
	Heat         int
	Shutdown     *core.ShutdownData
	Movement     Movement
	Declared     bool
	ExternalHeat int

	parts        map[core.Location]*Part
	firedWeapons []*Component
	destroyed    bool
}

// New creates a unit with no parts.
func New(name string, tonnage, walkMP, jumpMP int, pilot *Pilot) *Unit {
	if pilot == nil {
		pilot = NewPilot("", 4, 5)
	}
	return &Unit{
		ID:              uuid.New(),
		Name:            name,
		Tonnage:         tonnage,
		WalkMP:          walkMP,
		JumpMP:          jumpMP,
		EngineHeatSinks: 10,
		Pilot:           pilot,
		parts:           make(map[core.Location]*Part, len(core.Locations)),
	}
}

// AddPart attaches a part, replacing any part at the same location.
func (u *Unit) AddPart(p *Part) {
	u.parts[p.Location] = p
}

// Part returns the part at loc, nil if the unit has none.
func (u *Unit) Part(loc core.Location) *Part {
	return u.parts[loc]
}

// Parts returns the parts in location order.
func (u *Unit) Parts() []*Part {
	out := make([]*Part, 0, len(u.parts))
	for _, loc := range core.Locations {
		if p, ok := u.parts[loc]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that every location has a part.
func (u *Unit) Validate() error {
	for _, loc := range core.Locations {
		if _, ok := u.parts[loc]; !ok {
			return fmt.Errorf("%w: %s has no %s", ErrPartNotFound, u.Name, loc)
		}
	}
	return nil
}

// Component finds a mounted component by ID.
func (u *Unit) Component(id string) (*Component, *Part) {
	for _, p := range u.Parts() {
		for _, c := range p.Components() {
			if c.ID == id {
				return c, p
			}
		}
	}
	return nil, nil
}

// ComponentAt resolves a location and slot to the mounted component.
func (u *Unit) ComponentAt(loc core.Location, slot int) (*Component, error) {
	p := u.Part(loc)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, loc)
	}
	return p.ComponentAt(slot)
}

// Weapons returns all weapons in location order.
func (u *Unit) Weapons() []*Component {
	var out []*Component
	for _, p := range u.Parts() {
		for _, c := range p.Components() {
			if c.Kind == Weapon {
				out = append(out, c)
			}
		}
	}
	return out
}

// ComponentsOfKind returns every component of a kind in location order.
func (u *Unit) ComponentsOfKind(kind ComponentKind) []*Component {
	var out []*Component
	for _, p := range u.Parts() {
		for _, c := range p.Components() {
			if c.Kind == kind {
				out = append(out, c)
			}
		}
	}
	return out
}

// ComponentHits sums critical hits taken by components of a kind.
func (u *Unit) ComponentHits(kind ComponentKind) int {
	hits := 0
	for _, c := range u.ComponentsOfKind(kind) {
		hits += c.Hits
	}
	return hits
}

// DestroyedLocations returns the destroyed parts in location order.
func (u *Unit) DestroyedLocations() []core.Location {
	var out []core.Location
	for _, p := range u.Parts() {
		if p.Destroyed() {
			out = append(out, p.Location)
		}
	}
	return out
}

// LegsDestroyed counts destroyed legs.
func (u *Unit) LegsDestroyed() int {
	n := 0
	for _, loc := range []core.Location{core.LeftLeg, core.RightLeg} {
		if p := u.Part(loc); p != nil && p.Destroyed() {
			n++
		}
	}
	return n
}

// GyroDestroyed reports whether the gyro can no longer keep the unit upright.
func (u *Unit) GyroDestroyed() bool {
	return u.ComponentHits(Gyro) >= Gyro.HitsToDestroy()
}

// EffectiveWalkMP applies heat and leg damage to the walking MP.
func (u *Unit) EffectiveWalkMP(heatPenalty int) int {
	if u.LegsDestroyed() > 0 {
		return min(1, max(0, u.WalkMP-heatPenalty))
	}
	walk := u.WalkMP - heatPenalty
	for _, c := range u.ComponentsOfKind(Hip) {
		if c.Destroyed {
			walk /= 2
		}
	}
	for _, p := range u.Parts() {
		if !p.Location.IsLeg() {
			continue
		}
		for _, comp := range p.Components() {
			if comp.Kind.IsLegActuator() && comp.Kind != Hip && comp.Destroyed {
				walk--
			}
		}
	}
	return max(0, walk)
}

// EffectiveRunMP is one and a half times the walking MP, rounded up.
func (u *Unit) EffectiveRunMP(heatPenalty int) int {
	walk := u.EffectiveWalkMP(heatPenalty)
	return (walk*3 + 1) / 2
}

// EffectiveJumpMP is limited by working jump jets when the unit mounts any.
func (u *Unit) EffectiveJumpMP() int {
	jets := u.ComponentsOfKind(JumpJet)
	if len(jets) == 0 {
		return u.JumpMP
	}
	working := 0
	for _, j := range jets {
		if !j.Destroyed {
			working++
		}
	}
	return min(u.JumpMP, working)
}

// HeatSinkDissipation is the dissipation of working mounted heat sinks.
func (u *Unit) HeatSinkDissipation() int {
	per := 1
	if u.DoubleHeatSinks {
		per = 2
	}
	n := 0
	for _, c := range u.ComponentsOfKind(HeatSink) {
		if !c.Destroyed {
			n++
		}
	}
	return n * per
}

// EngineDissipation is the dissipation of the sinks integrated in the engine.
func (u *Unit) EngineDissipation() int {
	if u.DoubleHeatSinks {
		return u.EngineHeatSinks * 2
	}
	return u.EngineHeatSinks
}

// RecordWeaponFired adds a weapon to this turn's fired list.
func (u *Unit) RecordWeaponFired(c *Component) {
	u.firedWeapons = append(u.firedWeapons, c)
}

// WeaponsFired returns the weapons fired this turn.
func (u *Unit) WeaponsFired() []*Component {
	return u.firedWeapons
}

// HasFired reports whether the weapon was already fired this turn.
func (u *Unit) HasFired(c *Component) bool {
	for _, w := range u.firedWeapons {
		if w == c {
			return true
		}
	}
	return false
}

// ConsumeAmmo spends one shot from the first usable bin of the given type,
// in part order. It returns false when no shots are left.
func (u *Unit) ConsumeAmmo(ammoType string) bool {
	for _, p := range u.Parts() {
		if p.Destroyed() {
			continue
		}
		for _, c := range p.Components() {
			if c.Kind != Ammo || c.Ammo == nil || c.Destroyed {
				continue
			}
			if c.Ammo.AmmoType == ammoType && c.Ammo.Shots > 0 {
				c.Ammo.Shots--
				return true
			}
		}
	}
	return false
}

// IsShutdown reports whether the unit is powered down.
func (u *Unit) IsShutdown() bool {
	return u.Shutdown != nil
}

// IsImmobile reports whether the unit cannot act: it is shut down or its
// pilot cannot control it.
func (u *Unit) IsImmobile() bool {
	return u.IsShutdown() || !u.Pilot.CanAct()
}

// IsDestroyed reports whether the unit has been destroyed.
func (u *Unit) IsDestroyed() bool {
	return u.destroyed
}

// CheckDestroyed evaluates the destruction conditions and returns true only
// on the call that first finds the unit destroyed.
func (u *Unit) CheckDestroyed() bool {
	if u.destroyed {
		return false
	}
	if u.destructionCause() == "" {
		return false
	}
	u.destroyed = true
	return true
}

// DestructionCause names the condition that destroyed the unit.
func (u *Unit) DestructionCause() string {
	if !u.destroyed {
		return ""
	}
	return u.destructionCause()
}

func (u *Unit) destructionCause() string {
	if p := u.Part(core.Head); p != nil && p.Destroyed() {
		return "head destroyed"
	}
	if p := u.Part(core.CenterTorso); p != nil && p.Destroyed() {
		return "center torso destroyed"
	}
	if u.ComponentHits(Engine) >= Engine.HitsToDestroy() {
		return "engine destroyed"
	}
	for _, c := range u.ComponentsOfKind(Cockpit) {
		if c.Destroyed {
			return "cockpit destroyed"
		}
	}
	if u.Pilot.Dead() {
		return "pilot killed"
	}
	return ""
}

// ResetTurn clears the per-turn state before a new turn starts.
func (u *Unit) ResetTurn() {
	u.Movement = Movement{}
	u.Declared = false
	u.ExternalHeat = 0
	u.firedWeapons = nil
}
