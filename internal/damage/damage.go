// Package damage splits damage into armor and internal structure and follows
// the transfer chain when a location is destroyed.
package damage

import (
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

// Calculate returns the damage records of amount points striking loc. It does
// not mutate the unit. Armor absorbs first, then structure; damage left over
// when a location is destroyed moves on to its transfer location. Damage
// landing on an already destroyed location transfers immediately, and
// whatever is left past the head or center torso is lost.
func Calculate(u *unit.Unit, loc core.Location, amount int) []core.LocationDamageData {
	return calculate(u, loc, amount, false)
}

// CalculateInternal returns the records of an internal explosion in loc: the
// damage bypasses armor. With CASE in the location the damage that would
// transfer out is discarded.
func CalculateInternal(u *unit.Unit, loc core.Location, amount int) []core.LocationDamageData {
	return calculate(u, loc, amount, true)
}

func calculate(u *unit.Unit, loc core.Location, amount int, internal bool) []core.LocationDamageData {
	var out []core.LocationDamageData
	remaining := amount
	contained := false
	first := true
	for remaining > 0 {
		p := u.Part(loc)
		if p == nil {
			break
		}
		if internal && first && p.HasCASE {
			contained = true
		}
		if !p.Destroyed() {
			rec := core.LocationDamageData{Location: loc}
			if !internal {
				rec.ArmorDamage = min(p.Armor, remaining)
				remaining -= rec.ArmorDamage
			}
			rec.StructureDamage = min(p.Structure, remaining)
			remaining -= rec.StructureDamage
			rec.IsLocationDestroyed = rec.StructureDamage > 0 && rec.StructureDamage >= p.Structure
			if rec.Total() > 0 {
				out = append(out, rec)
			}
			if !rec.IsLocationDestroyed {
				break
			}
		}
		if contained {
			break
		}
		next, ok := loc.Transfer()
		if !ok {
			break
		}
		loc = next
		first = false
	}
	return out
}

// Apply writes the records to the unit and returns the locations this call
// destroyed, in record order. A destroyed side torso takes the arm on the
// same side with it.
func Apply(u *unit.Unit, records []core.LocationDamageData) []core.Location {
	var destroyed []core.Location
	for _, rec := range records {
		p := u.Part(rec.Location)
		if p == nil {
			continue
		}
		if p.ApplyDamage(rec.ArmorDamage, rec.StructureDamage) {
			destroyed = append(destroyed, rec.Location)
			destroyed = append(destroyed, dependents(u, rec.Location)...)
		}
	}
	return destroyed
}

// DestroyLocation destroys loc outright, as when it is blown off, and returns
// every location lost with it.
func DestroyLocation(u *unit.Unit, loc core.Location) []core.Location {
	p := u.Part(loc)
	if p == nil || !p.BlowOff() {
		return nil
	}
	return append([]core.Location{loc}, dependents(u, loc)...)
}

func dependents(u *unit.Unit, loc core.Location) []core.Location {
	var arm core.Location
	switch loc {
	case core.LeftTorso:
		arm = core.LeftArm
	case core.RightTorso:
		arm = core.RightArm
	default:
		return nil
	}
	p := u.Part(arm)
	if p == nil || p.Destroyed() {
		return nil
	}
	p.ApplyDamage(p.Armor, p.Structure)
	return []core.Location{arm}
}
