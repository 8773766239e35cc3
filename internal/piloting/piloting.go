// Package piloting computes piloting skill roll target numbers and rolls them.
package piloting

import (
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

// Reason is the event that calls for a piloting skill roll.
type Reason string

const (
	HeavyDamage     Reason = "HeavyDamage"
	GyroHit         Reason = "GyroHit"
	LegActuatorHit  Reason = "LegActuatorHit"
	HipHit          Reason = "HipHit"
	LegDestroyed    Reason = "LegDestroyed"
	Shutdown        Reason = "Shutdown"
	Jumping         Reason = "JumpingWithDamage"
	Running         Reason = "RunningWithDamage"
	StandUp         Reason = "StandUp"
	AvoidFallDamage Reason = "AvoidFallDamage"
)

// Breakdown is a PSR target number and its terms.
type Breakdown struct {
	Modifiers  []core.Modifier
	Target     int
	Impossible bool
}

// TargetNumber returns the PSR target of u for reason: piloting skill plus
// the modifiers of existing damage plus the modifier of the event itself.
func TargetNumber(u *unit.Unit, reason Reason, r rules.Provider) Breakdown {
	m := r.Psr()
	var b Breakdown
	add := func(name string, v int) {
		if v == 0 {
			return
		}
		b.Modifiers = append(b.Modifiers, core.Modifier{Name: name, Value: v})
		b.Target += v
	}

	b.Modifiers = append(b.Modifiers, core.Modifier{Name: "piloting", Value: u.Pilot.Piloting})
	b.Target = u.Pilot.Piloting

	if u.GyroDestroyed() || !u.Pilot.CanAct() {
		b.Impossible = true
	}
	if hits := u.ComponentHits(unit.Gyro); hits > 0 {
		add("gyro damage", hits*m.GyroHit)
	}
	if legs := u.LegsDestroyed(); legs > 0 {
		add("leg destroyed", legs*m.LegDestroyed)
	} else {
		for _, c := range u.ComponentsOfKind(unit.Hip) {
			if c.Destroyed {
				add("hip destroyed", m.HipHit)
			}
		}
		actuators := 0
		for _, p := range u.Parts() {
			if !p.Location.IsLeg() {
				continue
			}
			for _, c := range p.Components() {
				if c.Kind.IsLegActuator() && c.Kind != unit.Hip && c.Destroyed {
					actuators++
				}
			}
		}
		add("leg actuator damage", actuators*m.LegActuatorHit)
	}

	switch reason {
	case HeavyDamage:
		add("heavy damage", m.HeavyDamage)
	case Shutdown:
		add("shutdown", m.Shutdown)
	case Jumping:
		add("jumping", m.Jumping)
	case StandUp:
		add("standing up", m.StandUp)
	}

	if b.Target > 12 {
		b.Impossible = true
	}
	return b
}

// Damaged reports whether u carries damage that makes running or jumping
// call for a roll: gyro hits, a destroyed leg or destroyed leg actuators.
func Damaged(u *unit.Unit) bool {
	if u.ComponentHits(unit.Gyro) > 0 || u.LegsDestroyed() > 0 {
		return true
	}
	for _, p := range u.Parts() {
		if !p.Location.IsLeg() {
			continue
		}
		for _, c := range p.Components() {
			if c.Kind.IsLegActuator() && c.Destroyed {
				return true
			}
		}
	}
	return false
}

// Applies reports whether a roll for reason can be made at all.
func Applies(u *unit.Unit, reason Reason) bool {
	if u.IsDestroyed() {
		return false
	}
	switch reason {
	case StandUp:
		return u.Prone
	case AvoidFallDamage:
		return true
	}
	return !u.Prone
}

// Roll makes the PSR. It returns nil when the roll does not apply; an
// impossible roll fails without dice.
func Roll(u *unit.Unit, reason Reason, src dice.Source, r rules.Provider) *core.PsrData {
	if !Applies(u, reason) {
		return nil
	}
	b := TargetNumber(u, reason, r)
	data := &core.PsrData{
		Reason:     string(reason),
		Modifiers:  b.Modifiers,
		Target:     b.Target,
		Impossible: b.Impossible,
	}
	if b.Impossible {
		return data
	}
	data.Roll = dice.Roll2D6(src)
	data.Success = core.Sum(data.Roll) >= b.Target
	return data
}
