// Package fall decides whether units lose their footing after an impact or a
// risky maneuver and resolves the damage of going down.
package fall

import (
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/hitlocation"
	"github.com/ironhex/combat/internal/piloting"
	"github.com/ironhex/combat/internal/resolution"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

// Reasons that put a unit on the ground without a roll.
const (
	ReasonLegDestroyed  = "LegDestroyed"
	ReasonGyroDestroyed = "GyroDestroyed"
	ReasonShutdown      = "Shutdown"
	ReasonFailedPsr     = "FailedPsr"
)

// Input describes what happened to one unit in the current impact. Callers
// build it fresh for every call; nothing carries over between calls.
type Input struct {
	Unit           *unit.Unit
	ComponentHits  []*unit.Component
	DestroyedParts []core.Location
	// DamageThisPhase is the total damage taken this phase, armor included.
	DamageThisPhase int
	// HeavyDamageChecked is set once the unit rolled for heavy damage this phase.
	HeavyDamageChecked bool
	// Shutdown is set when the unit just shut down.
	Shutdown bool
	// FailedPsr is a roll the unit already failed, such as a movement PSR.
	FailedPsr *core.PsrData
}

// Processor runs fall checks and applies falling damage.
type Processor struct {
	Dice     dice.Source
	Rules    rules.Provider
	Resolver *resolution.Resolver
}

// New creates a Processor.
func New(src dice.Source, r rules.Provider, res *resolution.Resolver) *Processor {
	return &Processor{Dice: src, Rules: r, Resolver: res}
}

// Process checks every input in order and returns one record per unit that
// had a reason to fall. A unit falls at most once per call. Prone or
// destroyed units produce nothing.
func (p *Processor) Process(inputs ...Input) []core.FallData {
	var out []core.FallData
	for _, in := range inputs {
		if data, ok := p.process(in); ok {
			out = append(out, data)
		}
	}
	return out
}

// HeavyDamage reports whether the input calls for a heavy damage roll.
func (p *Processor) HeavyDamage(in Input) bool {
	return !in.HeavyDamageChecked && in.DamageThisPhase >= p.Rules.HeavyDamageThreshold()
}

func (p *Processor) process(in Input) (core.FallData, bool) {
	u := in.Unit
	if u == nil || u.Prone || u.IsDestroyed() {
		return core.FallData{}, false
	}
	data := core.FallData{UnitID: u.ID}

	automatic := p.automaticReasons(in)
	if len(automatic) > 0 {
		data.Reasons = automatic
		data.IsAutomatic = true
		if in.FailedPsr != nil {
			data.Psrs = append(data.Psrs, *in.FailedPsr)
		}
		p.fall(u, &data)
		return data, true
	}

	reasons := p.psrReasons(in)
	if len(reasons) == 0 {
		return core.FallData{}, false
	}
	for _, reason := range reasons {
		data.Reasons = append(data.Reasons, string(reason))
		psr := piloting.Roll(u, reason, p.Dice, p.Rules)
		if psr == nil {
			continue
		}
		data.Psrs = append(data.Psrs, *psr)
		if !psr.Success {
			p.fall(u, &data)
			break
		}
	}
	return data, true
}

func (p *Processor) automaticReasons(in Input) []string {
	var out []string
	for _, loc := range in.DestroyedParts {
		if loc.IsLeg() {
			out = append(out, ReasonLegDestroyed)
			break
		}
	}
	if in.Unit.GyroDestroyed() {
		for _, c := range in.ComponentHits {
			if c.Kind == unit.Gyro {
				out = append(out, ReasonGyroDestroyed)
				break
			}
		}
	}
	if in.Shutdown {
		out = append(out, ReasonShutdown)
	}
	if in.FailedPsr != nil {
		out = append(out, ReasonFailedPsr)
	}
	return out
}

func (p *Processor) psrReasons(in Input) []piloting.Reason {
	var out []piloting.Reason
	if p.HeavyDamage(in) {
		out = append(out, piloting.HeavyDamage)
	}
	for _, c := range in.ComponentHits {
		switch {
		case c.Kind == unit.Gyro:
			out = append(out, piloting.GyroHit)
		case c.Kind == unit.Hip:
			out = append(out, piloting.HipHit)
		case c.Kind.IsLegActuator():
			out = append(out, piloting.LegActuatorHit)
		}
	}
	return out
}

// facing roll 1..6
var fallDirections = [6]core.AttackDirection{
	core.FromFront,
	core.FromRight,
	core.FromRight,
	core.FromRear,
	core.FromLeft,
	core.FromLeft,
}

func (p *Processor) fall(u *unit.Unit, data *core.FallData) {
	data.Fell = true
	data.FacingRoll = dice.Roll1D6(p.Dice)
	data.Direction = fallDirections[data.FacingRoll[0]-1]

	im := p.Resolver.Begin(u)
	hits := &core.HitLocationsData{}
	remaining := p.Rules.FallingDamage(u.Tonnage)
	group := max(1, p.Rules.FallingDamageGroup())
	for remaining > 0 && !im.UnitDestroyed {
		amount := min(group, remaining)
		remaining -= amount
		hit := hitlocation.ResolveLocation(u, data.Direction, nil, p.Dice, p.Rules)
		p.Resolver.Hit(im, &hit, amount)
		hits.HitLocations = append(hits.HitLocations, hit)
		hits.TotalDamage += hit.TotalDamage()
	}
	p.Resolver.Settle(im)
	u.Prone = true

	data.HitLocations = hits
	data.Criticals = im.Criticals
	data.DestroyedParts = im.DestroyedParts
	data.UnitDestroyed = im.UnitDestroyed
	data.PilotInjured = im.PilotInjuries > 0
	if im.UnitDestroyed {
		return
	}

	psr := piloting.Roll(u, piloting.AvoidFallDamage, p.Dice, p.Rules)
	if psr == nil {
		return
	}
	data.PilotDamageRoll = psr
	if !psr.Success && u.Pilot.Injure(1) > 0 {
		data.PilotInjured = true
		if u.CheckDestroyed() {
			data.UnitDestroyed = true
		}
	}
}
