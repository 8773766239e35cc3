// Package critical rolls critical hits inside a structurally damaged location
// and applies their effects to the unit.
package critical

import (
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

// maxSlotRolls bounds slot re-rolls; past it the first hittable slot is taken.
const maxSlotRolls = 64

// Determine rolls the critical hit check of a location and picks the slots
// struck. It does not mutate the unit. A blown off location lists no
// components.
func Determine(u *unit.Unit, loc core.Location, src dice.Source, r rules.Provider) core.LocationCriticalHitsData {
	data := core.LocationCriticalHitsData{Location: loc}
	data.Roll = dice.Roll2D6(src)
	hits, blownOff := r.CriticalHits(loc, core.Sum(data.Roll))
	if blownOff {
		data.IsBlownOff = true
		return data
	}
	data.NumCriticalHits = hits

	p := u.Part(loc)
	if p == nil {
		return data
	}
	taken := make(map[int]bool, hits)
	for i := 0; i < hits; i++ {
		slot, ok := pickSlot(p, taken, src)
		if !ok {
			break
		}
		taken[slot] = true
		c, _ := p.ComponentAt(slot)
		data.HitComponents = append(data.HitComponents, core.ComponentHitData{
			Slot:          slot,
			ComponentID:   c.ID,
			ComponentName: c.Name,
			ComponentKind: c.Kind.String(),
		})
	}
	return data
}

func hittable(p *unit.Part, taken map[int]bool, slot int) bool {
	return p.IsSlotHittable(slot) && !taken[slot]
}

// pickSlot rolls for a slot until it lands on one that is occupied and not
// yet hit. Twelve slot locations roll a block die first.
func pickSlot(p *unit.Part, taken map[int]bool, src dice.Source) (int, bool) {
	var candidates []int
	for _, s := range p.HittableSlots() {
		if !taken[s] {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	for i := 0; i < maxSlotRolls; i++ {
		base := 0
		if p.SlotCount() > 6 && dice.Roll1D6(src)[0] >= 4 {
			base = 6
		}
		slot := base + dice.Roll1D6(src)[0] - 1
		if hittable(p, taken, slot) {
			return slot, true
		}
	}
	return candidates[0], true
}

// Effect is what applying one component hit did.
type Effect struct {
	// Index is the position of the hit in HitComponents.
	Index     int
	Slot      int
	Component *unit.Component
	Destroyed bool
	// ExplosionDamage is set when the hit set off an explosion.
	ExplosionDamage int
	PilotKilled     bool
}

// Apply marks the slots and components of data as hit. Explosions are
// reported through the returned effects; the caller turns them into damage.
// Blown off locations are not handled here.
func Apply(u *unit.Unit, data core.LocationCriticalHitsData) []Effect {
	p := u.Part(data.Location)
	if p == nil {
		return nil
	}
	var out []Effect
	for i, h := range data.HitComponents {
		c, err := p.ComponentAt(h.Slot)
		if err != nil || c == nil {
			continue
		}
		p.MarkSlotHit(h.Slot)
		e := Effect{Index: i, Slot: h.Slot, Component: c}
		if c.CanExplode() {
			e.ExplosionDamage = c.Explode()
			e.Destroyed = true
		} else {
			e.Destroyed = c.Hit()
		}
		if c.Kind == unit.Cockpit {
			u.Pilot.Kill()
			e.PilotKilled = true
		}
		out = append(out, e)
	}
	return out
}
