// Package hitlocation decides where a hit lands and how cluster weapons
// spread their missiles.
package hitlocation

import (
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

// ResolveLocation rolls the location of one hit. An aimed shot makes one
// aimed roll; inside the success range it strikes the declared location,
// otherwise one ordinary table roll follows. Damage is not filled in.
func ResolveLocation(target *unit.Unit, dir core.AttackDirection, aimed *core.Location, src dice.Source, r rules.Provider) core.LocationHitData {
	var hit core.LocationHitData
	if aimed != nil {
		hit.AimedShotRoll = dice.Roll2D6(src)
		if r.AimedShotHits(core.Sum(hit.AimedShotRoll)) {
			hit.Location = *aimed
			return Redirect(target, hit)
		}
	}
	hit.LocationRoll = dice.Roll2D6(src)
	hit.Location = r.HitLocation(dir, core.Sum(hit.LocationRoll))
	return Redirect(target, hit)
}

// Redirect moves a hit on a destroyed location down the transfer chain to the
// first location still standing, recording the original in InitialLocation.
// It depends only on the hit and the set of destroyed locations.
func Redirect(target *unit.Unit, hit core.LocationHitData) core.LocationHitData {
	initial := hit.Location
	loc := initial
	for {
		p := target.Part(loc)
		if p == nil || !p.Destroyed() {
			break
		}
		next, ok := loc.Transfer()
		if !ok {
			break
		}
		loc = next
	}
	hit.Location = loc
	if loc != initial {
		hit.InitialLocation = &initial
	}
	return hit
}

// ClusterHits rolls the cluster table for the weapon and returns the roll and
// the number of missiles that hit.
func ClusterHits(w *unit.WeaponStats, src dice.Source, r rules.Provider) ([]int, int) {
	roll := dice.Roll2D6(src)
	return roll, r.ClusterHits(w.RackSize, core.Sum(roll))
}

// Groups splits the missiles that hit into damage groups that each roll their
// own location. Every group holds ClusterSize missiles except the last, which
// holds the remainder.
func Groups(w *unit.WeaponStats, missiles int) []int {
	size := w.ClusterSize
	if size <= 0 {
		size = 1
	}
	var out []int
	for missiles > 0 {
		n := min(size, missiles)
		out = append(out, n*w.Damage)
		missiles -= n
	}
	return out
}
