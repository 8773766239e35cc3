package phase

import (
	"github.com/ironhex/combat/internal/consciousness"
	"github.com/ironhex/combat/internal/fall"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/heat"
	"github.com/ironhex/combat/internal/resolution"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
)

// Heat applies each unit's heat for the turn and runs the checks heat calls
// for. A check that does not apply publishes nothing.
type Heat struct {
	base
	resolver *resolution.Resolver
}

// NewHeat creates the heat phase.
func NewHeat(g *game.Game) (*Heat, error) {
	b, err := newBase(game.Heat, g)
	if err != nil {
		return nil, err
	}
	return &Heat{base: b, resolver: resolution.New(g.Dice, g.Rules)}, nil
}

func (p *Heat) Enter() error {
	for _, u := range p.g.Units.Active() {
		p.process(u)
	}
	return p.g.Advance()
}

func (p *Heat) process(u *unit.Unit) {
	data := heat.Assemble(u, p.g.Rules)
	heat.Apply(u, data)
	p.g.Publish(&command.HeatUpdated{UnitID: u.ID, Data: data, Heat: u.Heat})

	if startup := heat.Restart(u, p.g.Turn, p.g.Dice, p.g.Rules); startup != nil {
		p.g.Publish(&command.UnitStartup{UnitID: u.ID, IsAutomaticRestart: true, Data: *startup})
	}

	if check := heat.Shutdown(u, p.g.Turn, p.g.Dice, p.g.Rules); check != nil {
		p.g.Publish(&command.UnitShutdown{UnitID: u.ID, Data: u.Shutdown, Check: check})
		if check.Shutdown {
			a := &aftermath{b: &p.base, u: u}
			a.finish(a.fall(fall.Input{Unit: u, Shutdown: true}))
		}
	}
	if u.IsDestroyed() {
		return
	}

	injured := false
	if check := heat.AmmoExplosion(u, p.g.Dice, p.g.Rules); check != nil {
		cmd := &command.AmmoExplosion{UnitID: u.ID, Data: *check}
		if !check.Exploded {
			p.g.Publish(cmd)
		} else {
			bin, _ := u.Component(check.ComponentID)
			im := p.resolver.Begin(u)
			p.resolver.Explode(im, check.Location, bin)
			p.resolver.Settle(im)
			cmd.Damage = im.Damage
			cmd.Criticals = im.Criticals
			cmd.DestroyedParts = im.DestroyedParts
			cmd.UnitDestroyed = im.UnitDestroyed
			p.g.Publish(cmd)

			a := &aftermath{b: &p.base, u: u, injured: im.PilotInjuries > 0}
			a.finish(a.fall(fall.Input{
				Unit:            u,
				ComponentHits:   im.ComponentHits,
				DestroyedParts:  im.DestroyedParts,
				DamageThisPhase: im.TotalDamage,
			}))
			injured = true
		}
	}
	if u.IsDestroyed() {
		return
	}

	if n := heat.LifeSupport(u, p.g.Rules); n > 0 {
		u.Pilot.Injure(n)
		if u.CheckDestroyed() {
			p.announceDestroyed(u)
			return
		}
		p.rollConsciousness(u)
		injured = true
	}
	if !injured {
		p.recover(u)
	}
}

// recover gives an unconscious pilot who was not hurt this phase a roll to
// wake up.
func (p *Heat) recover(u *unit.Unit) {
	if data := consciousness.Recover(u.Pilot, p.g.Turn, p.g.Dice, p.g.Rules); data != nil {
		p.g.Publish(&command.PilotConsciousnessRoll{UnitID: u.ID, Data: *data})
	}
}
