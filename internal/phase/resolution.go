package phase

import (
	"slices"

	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/fall"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/hitlocation"
	"github.com/ironhex/combat/internal/resolution"
	"github.com/ironhex/combat/internal/tohit"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// Resolution rolls every declared attack. Attackers are visited in
// initiative order and each weapon's cascade runs to completion before the
// next weapon is rolled.
type Resolution struct {
	base
	resolver *resolution.Resolver
	// damage taken and heavy damage rolls made this phase, per unit
	damage       map[uuid.UUID]int
	heavyChecked map[uuid.UUID]bool
}

// NewResolution creates the attack resolution phase.
func NewResolution(g *game.Game) (*Resolution, error) {
	b, err := newBase(game.WeaponAttackResolution, g)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		base:         b,
		resolver:     resolution.New(g.Dice, g.Rules),
		damage:       make(map[uuid.UUID]int),
		heavyChecked: make(map[uuid.UUID]bool),
	}, nil
}

func (p *Resolution) Validate() error {
	return p.requireMap()
}

func (p *Resolution) Enter() error {
	for _, a := range p.ordered() {
		p.resolve(a)
	}
	return p.g.Advance()
}

// ordered returns the attacks grouped by the attacker's initiative rank,
// declaration order within a rank.
func (p *Resolution) ordered() []*game.Attack {
	rank := func(a *game.Attack) int {
		if u := p.unit(a.AttackerID); u != nil {
			if i := slices.Index(p.g.InitiativeOrder, u.Owner); i >= 0 {
				return i
			}
		}
		return len(p.g.InitiativeOrder)
	}
	out := slices.Clone(p.g.Attacks)
	slices.SortStableFunc(out, func(a, b *game.Attack) int {
		return rank(a) - rank(b)
	})
	return out
}

// resolve rolls one attack. Attacks by or against a destroyed unit are
// marked resolved without a roll.
func (p *Resolution) resolve(a *game.Attack) {
	if a.Resolved {
		return
	}
	a.Resolved = true

	attacker, target := p.unit(a.AttackerID), p.unit(a.TargetID)
	if attacker == nil || target == nil || attacker.IsDestroyed() || target.IsDestroyed() {
		p.g.Logger.Debug("attack skipped", "attacker", a.AttackerID, "target", a.TargetID, "weapon", a.WeaponID)
		return
	}
	weapon, _ := attacker.Component(a.WeaponID)

	bd := tohit.Calculate(tohit.Input{
		Attacker:        attacker,
		Target:          target,
		Weapon:          weapon,
		Map:             p.g.Map,
		Rules:           p.g.Rules,
		IsPrimaryTarget: a.IsPrimary,
		AimedLocation:   a.AimedLocation,
	})
	data := core.AttackResolutionData{
		AttackerID:      attacker.ID,
		TargetID:        target.ID,
		WeaponID:        a.WeaponID,
		ToHitNumber:     bd.Total,
		Modifiers:       bd.Modifiers,
		AttackDirection: battlemap.AttackDirection(target.Position, target.Facing, attacker.Position),
	}
	if bd.Impossible {
		p.g.Logger.Debug("attack impossible", "attacker", attacker.Name, "weapon", a.WeaponID, "reason", bd.Reason)
		p.g.Publish(&command.WeaponAttackResolution{Data: data})
		return
	}

	data.AttackRoll = dice.Roll2D6(p.g.Dice)
	data.IsHit = core.Sum(data.AttackRoll) >= bd.Total
	if !data.IsHit {
		p.g.Publish(&command.WeaponAttackResolution{Data: data})
		return
	}

	im := p.resolver.Begin(target)
	data.HitLocationsData = p.hit(im, weapon.Weapon, data.AttackDirection, a.AimedLocation)
	if heat := weapon.Weapon.ExternalHeat; heat > 0 {
		target.ExternalHeat += heat
		data.ExternalHeat = heat
	}
	p.resolver.Settle(im)
	data.DestroyedParts = im.DestroyedParts
	data.UnitDestroyed = im.UnitDestroyed
	p.g.Publish(&command.WeaponAttackResolution{Data: data})

	after := p.aftermath(im)
	p.damage[target.ID] += im.TotalDamage
	in := fall.Input{
		Unit:               target,
		ComponentHits:      im.ComponentHits,
		DestroyedParts:     im.DestroyedParts,
		DamageThisPhase:    p.damage[target.ID],
		HeavyDamageChecked: p.heavyChecked[target.ID],
	}
	falls := after.fall(in)
	if p.damage[target.ID] >= p.g.Rules.HeavyDamageThreshold() {
		p.heavyChecked[target.ID] = true
	}
	after.finish(falls)
}

// hit rolls the locations of a hit and applies the damage. Cluster weapons
// roll the cluster table and one location per group.
func (p *Resolution) hit(im *resolution.Impact, w *unit.WeaponStats, dir core.AttackDirection, aimed *core.Location) *core.HitLocationsData {
	hits := &core.HitLocationsData{}
	groups := []int{w.Damage}
	if w.IsCluster() {
		hits.ClusterRoll, hits.MissilesHit = hitlocation.ClusterHits(w, p.g.Dice, p.g.Rules)
		groups = hitlocation.Groups(w, hits.MissilesHit)
		aimed = nil
	}
	for _, amount := range groups {
		if im.UnitDestroyed {
			break
		}
		hit := hitlocation.ResolveLocation(im.Unit, dir, aimed, p.g.Dice, p.g.Rules)
		p.resolver.Hit(im, &hit, amount)
		hits.HitLocations = append(hits.HitLocations, hit)
		hits.TotalDamage += amount
	}
	return hits
}
