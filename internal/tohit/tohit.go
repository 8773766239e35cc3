// Package tohit computes attack target numbers. Every function is pure, so a
// client can preview a shot with the same numbers the resolution phase uses.
package tohit

import (
	"fmt"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

// MaxTarget is the highest number two dice can roll.
const MaxTarget = 12

// Input is everything a to-hit number depends on.
type Input struct {
	Attacker        *unit.Unit
	Target          *unit.Unit
	Weapon          *unit.Component
	Map             battlemap.Map
	Rules           rules.Provider
	IsPrimaryTarget bool
	AimedLocation   *core.Location
}

// Breakdown is a to-hit number with the modifiers it was built from.
type Breakdown struct {
	Modifiers  []core.Modifier
	Total      int
	Impossible bool
	Reason     string
}

func (b *Breakdown) add(name string, value int) {
	b.Modifiers = append(b.Modifiers, core.Modifier{Name: name, Value: value})
	b.Total += value
}

func (b *Breakdown) fail(reason string) Breakdown {
	b.Impossible = true
	b.Reason = reason
	return *b
}

// Calculate builds the to-hit number of one weapon against one target.
func Calculate(in Input) Breakdown {
	var b Breakdown
	if in.Weapon == nil || in.Weapon.Weapon == nil {
		return b.fail("not a weapon")
	}
	if in.Weapon.Destroyed {
		return b.fail("weapon destroyed")
	}
	w := in.Weapon.Weapon

	b.add("gunnery", in.Attacker.Pilot.Gunnery)

	switch in.Attacker.Movement.Mode {
	case core.Walk:
		b.add("attacker walked", 1)
	case core.Run:
		b.add("attacker ran", 2)
	case core.Jump:
		b.add("attacker jumped", 3)
	}

	if tmm := in.Rules.TargetMovementModifier(in.Target.Movement.HexesMoved, in.Target.Movement.Mode == core.Jump); tmm != 0 {
		b.add("target movement", tmm)
	}

	dist := in.Map.Distance(in.Attacker.Position, in.Target.Position)
	switch {
	case dist > w.LongRange:
		return b.fail(fmt.Sprintf("out of range: %d > %d", dist, w.LongRange))
	case dist > w.MediumRange:
		b.add("long range", 4)
	case dist > w.ShortRange:
		b.add("medium range", 2)
	}
	if w.MinRange > 0 && dist <= w.MinRange {
		b.add("minimum range", w.MinRange-dist+1)
	}

	if heat := in.Rules.HeatToHitModifier(in.Attacker.Heat); heat != 0 {
		b.add("heat", heat)
	}

	sensorHits := in.Attacker.ComponentHits(unit.Sensors)
	if sensorHits >= unit.Sensors.HitsToDestroy() {
		return b.fail("sensors destroyed")
	}
	if sensorHits > 0 {
		b.add("sensor damage", 2*sensorHits)
	}

	los := in.Map.LineOfSight(in.Attacker.Position, in.Target.Position)
	if !los.Clear {
		return b.fail("no line of sight")
	}
	if los.InterveningWoods > 0 {
		b.add("intervening woods", los.InterveningWoods)
	}
	if los.TargetWoods > 0 {
		b.add("target in woods", los.TargetWoods)
	}
	if los.ElevationModifier != 0 {
		b.add("elevation", los.ElevationModifier)
	}

	if in.Attacker.Prone {
		b.add("attacker prone", 2)
	}
	if in.Target.Prone {
		if dist <= 1 {
			b.add("target prone", -2)
		} else {
			b.add("target prone", 1)
		}
	}
	if in.Target.IsImmobile() {
		b.add("immobile target", -4)
	}
	if !in.IsPrimaryTarget {
		b.add("secondary target", 1)
	}

	if in.AimedLocation != nil {
		if !CanAim(in.Target, in.Weapon) {
			return b.fail("aimed shots need an immobile target and a single projectile weapon")
		}
		if *in.AimedLocation == core.Head {
			b.add("aimed at head", in.Rules.AimedShotModifier())
		}
	}

	if w.ToHitModifier != 0 {
		b.add("weapon", w.ToHitModifier)
	}

	addArmActuators(&b, in.Attacker, in.Weapon)

	if b.Total > MaxTarget {
		return b.fail(fmt.Sprintf("target number %d above %d", b.Total, MaxTarget))
	}
	return b
}

// CanAim reports whether an aimed shot may be declared with the weapon.
func CanAim(target *unit.Unit, weapon *unit.Component) bool {
	return target.IsImmobile() && weapon.Weapon != nil && !weapon.Weapon.IsCluster()
}

func addArmActuators(b *Breakdown, attacker *unit.Unit, weapon *unit.Component) {
	_, part := attacker.Component(weapon.ID)
	if part == nil || !part.Location.IsArm() {
		return
	}
	// a destroyed shoulder replaces the other actuator modifiers
	for _, c := range part.Components() {
		if c.Kind == unit.Shoulder && c.Destroyed {
			b.add("shoulder destroyed", 4)
			return
		}
	}
	for _, c := range part.Components() {
		if !c.Destroyed {
			continue
		}
		switch c.Kind {
		case unit.UpperArmActuator:
			b.add("upper arm actuator destroyed", 1)
		case unit.LowerArmActuator:
			b.add("lower arm actuator destroyed", 1)
		}
	}
}
