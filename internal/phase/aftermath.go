package phase

import (
	"github.com/ironhex/combat/internal/consciousness"
	"github.com/ironhex/combat/internal/fall"
	"github.com/ironhex/combat/internal/resolution"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// aftermath runs and publishes the consequences of an impact on one unit:
// critical hits, falls, consciousness rolls and destruction, in that order.
type aftermath struct {
	b *base
	u *unit.Unit
	// injured is set when the pilot took damage before the fall check.
	injured bool
}

func (b *base) aftermath(im *resolution.Impact) *aftermath {
	a := &aftermath{b: b, u: im.Unit, injured: im.PilotInjuries > 0}
	if len(im.Criticals) > 0 {
		b.g.Publish(&command.CriticalHitsResolution{Data: core.CriticalHitsData{
			UnitID:    im.Unit.ID,
			Locations: im.Criticals,
		}})
	}
	return a
}

// fall checks the unit for a fall and publishes the records.
func (a *aftermath) fall(in fall.Input) []core.FallData {
	falls := a.b.falls().Process(in)
	for _, f := range falls {
		a.b.g.Publish(&command.MechFall{Data: f})
	}
	return falls
}

// finish rolls consciousness for each injury source, pre-fall injuries first,
// and announces the destruction of the unit.
func (a *aftermath) finish(falls []core.FallData) {
	if a.injured {
		a.b.rollConsciousness(a.u)
	}
	for _, f := range falls {
		if f.PilotInjured {
			a.b.rollConsciousness(a.u)
		}
	}
	if a.u.IsDestroyed() {
		a.b.announceDestroyed(a.u)
	}
}

func (b *base) rollConsciousness(u *unit.Unit) {
	if u.IsDestroyed() {
		return
	}
	if data := consciousness.Roll(u.Pilot, b.g.Turn, b.g.Dice, b.g.Rules); data != nil {
		b.g.Publish(&command.PilotConsciousnessRoll{UnitID: u.ID, Data: *data})
	}
}

func (b *base) announceDestroyed(u *unit.Unit) {
	b.g.Logger.Info("unit destroyed", "unit", u.Name, "cause", u.DestructionCause())
	b.g.Publish(&command.UnitDestroyed{UnitID: u.ID, Cause: u.DestructionCause()})
}
