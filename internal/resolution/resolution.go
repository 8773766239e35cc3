// Package resolution runs the damage cascade of one impact: damage opens
// critical hit checks, critical hits set off explosions, and explosions deal
// more damage, until nothing is left to resolve.
package resolution

import (
	"github.com/ironhex/combat/internal/critical"
	"github.com/ironhex/combat/internal/damage"
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/queue"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

const (
	headHitInjuries   = 1
	explosionInjuries = 2
)

type eventKind int

const (
	critCheck eventKind = iota
	explosion
)

type event struct {
	kind eventKind
	loc  core.Location

	// explosion
	component *unit.Component
	amount    int
	// index into Impact.Criticals and its HitComponents, -1 when the
	// explosion did not come from a critical hit
	critIdx int
	hitIdx  int
}

// Impact accumulates everything that happened to one unit during a single
// resolution call. It is the input the fall processor works from.
type Impact struct {
	Unit           *unit.Unit
	Damage         []core.LocationDamageData
	Criticals      []core.LocationCriticalHitsData
	DestroyedParts []core.Location
	ComponentHits  []*unit.Component
	PilotInjuries  int
	TotalDamage    int
	UnitDestroyed  bool

	work *queue.Queue[event]
}

// Resolver applies damage to units and drives the cascade.
type Resolver struct {
	Dice  dice.Source
	Rules rules.Provider
}

// New creates a Resolver.
func New(src dice.Source, r rules.Provider) *Resolver {
	return &Resolver{Dice: src, Rules: r}
}

// Begin opens an impact on u.
func (r *Resolver) Begin(u *unit.Unit) *Impact {
	return &Impact{Unit: u, work: queue.New[event]()}
}

// Hit applies amount points of damage at hit.Location and stores the damage
// records in hit. Critical hit checks for locations that took structure
// damage are queued until Settle.
func (r *Resolver) Hit(im *Impact, hit *core.LocationHitData, amount int) {
	if im.UnitDestroyed {
		return
	}
	records := damage.Calculate(im.Unit, hit.Location, amount)
	hit.Damage = records
	r.apply(im, records)

	for _, rec := range records {
		if rec.Location == core.Head && rec.Total() > 0 {
			r.injure(im, headHitInjuries)
			break
		}
	}
	r.checkDestroyed(im)
}

// Explode detonates a component outside of a critical hit, as when heat
// cooks off an ammunition bin. The damage is resolved at Settle.
func (r *Resolver) Explode(im *Impact, loc core.Location, c *unit.Component) {
	if !c.CanExplode() {
		return
	}
	im.work.Push(event{kind: explosion, loc: loc, component: c, amount: c.Explode(), critIdx: -1})
}

// Settle processes queued critical hit checks and explosions until none are
// left or the unit is destroyed.
func (r *Resolver) Settle(im *Impact) {
	for {
		ev, ok := im.work.Pop()
		if !ok {
			return
		}
		if im.UnitDestroyed {
			im.work.Clear()
			return
		}
		switch ev.kind {
		case critCheck:
			r.criticalCheck(im, ev.loc)
		case explosion:
			r.explode(im, ev)
		}
		r.checkDestroyed(im)
	}
}

func (r *Resolver) apply(im *Impact, records []core.LocationDamageData) {
	im.Damage = append(im.Damage, records...)
	for _, rec := range records {
		im.TotalDamage += rec.Total()
	}
	im.DestroyedParts = append(im.DestroyedParts, damage.Apply(im.Unit, records)...)
	for _, rec := range records {
		if rec.StructureDamage > 0 && !rec.IsLocationDestroyed {
			im.work.Push(event{kind: critCheck, loc: rec.Location})
		}
	}
}

func (r *Resolver) criticalCheck(im *Impact, loc core.Location) {
	p := im.Unit.Part(loc)
	if p == nil || p.Destroyed() {
		return
	}
	data := critical.Determine(im.Unit, loc, r.Dice, r.Rules)
	idx := len(im.Criticals)
	im.Criticals = append(im.Criticals, data)

	if data.IsBlownOff {
		im.DestroyedParts = append(im.DestroyedParts, damage.DestroyLocation(im.Unit, loc)...)
		return
	}
	for _, e := range critical.Apply(im.Unit, data) {
		im.ComponentHits = append(im.ComponentHits, e.Component)
		if e.ExplosionDamage > 0 {
			im.work.Push(event{
				kind:      explosion,
				loc:       loc,
				component: e.Component,
				amount:    e.ExplosionDamage,
				critIdx:   idx,
				hitIdx:    e.Index,
			})
		}
	}
}

func (r *Resolver) explode(im *Impact, ev event) {
	records := damage.CalculateInternal(im.Unit, ev.loc, ev.amount)
	if ev.critIdx >= 0 {
		h := &im.Criticals[ev.critIdx].HitComponents[ev.hitIdx]
		h.ExplosionDamage = ev.amount
		h.ExplosionDamageDistribution = records
	}
	r.apply(im, records)
	r.injure(im, explosionInjuries)
}

func (r *Resolver) injure(im *Impact, n int) {
	im.PilotInjuries += im.Unit.Pilot.Injure(n)
}

func (r *Resolver) checkDestroyed(im *Impact) {
	if im.Unit.CheckDestroyed() || im.Unit.IsDestroyed() {
		im.UnitDestroyed = true
	}
}
