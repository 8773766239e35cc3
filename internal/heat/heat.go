// Package heat builds a unit's heat budget for the turn and runs the checks
// a hot unit is subject to: shutdown, restart, ammunition explosion and life
// support failure.
package heat

import (
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

// Assemble collects the heat generated and dissipated by u this turn.
func Assemble(u *unit.Unit, r rules.Provider) core.HeatData {
	data := core.HeatData{
		MovementHeat:        r.MovementHeat(u.Movement.Mode, u.Movement.MPUsed),
		ExternalHeat:        u.ExternalHeat,
		ExternalHeatCap:     r.ExternalHeatCap(),
		EngineHeat:          u.ComponentHits(unit.Engine) * r.EngineHitHeat(),
		HeatSinkDissipation: u.HeatSinkDissipation(),
		EngineDissipation:   u.EngineDissipation(),
	}
	for _, w := range u.WeaponsFired() {
		if w.Weapon != nil {
			data.WeaponHeat += w.Weapon.Heat
		}
	}
	return data
}

// Apply adds the net heat of data to the unit. Heat never drops below zero.
func Apply(u *unit.Unit, data core.HeatData) int {
	u.Heat = max(0, u.Heat+data.Net())
	return u.Heat
}

// Restart attempts to bring a unit shut down by heat in an earlier turn back
// online. It returns nil when no attempt is allowed: the unit is running, was
// shut down voluntarily or this turn, or is too hot to restart.
func Restart(u *unit.Unit, turn int, src dice.Source, r rules.Provider) *core.StartupData {
	if u.Shutdown == nil || u.Shutdown.Reason != core.ShutdownHeat || u.Shutdown.Turn >= turn {
		return nil
	}
	th, ok := r.RestartCheck(u.Heat)
	if !ok {
		return nil
	}
	data := &core.StartupData{Heat: u.Heat, Target: th.Target, IsAutomatic: th.Automatic}
	if th.Automatic {
		data.Success = true
	} else {
		data.Roll = dice.Roll2D6(src)
		data.Success = core.Sum(data.Roll) >= th.Target
	}
	if data.Success {
		u.Shutdown = nil
	}
	return data
}

// Startup powers up a unit its player shut down in an earlier turn. It
// returns nil for units running, shut down by heat or shut down this turn.
func Startup(u *unit.Unit, turn int) *core.StartupData {
	if u.Shutdown == nil || u.Shutdown.Reason != core.ShutdownVoluntary || u.Shutdown.Turn >= turn {
		return nil
	}
	u.Shutdown = nil
	return &core.StartupData{Heat: u.Heat, IsAutomatic: true, Success: true}
}

// Shutdown checks whether a running unit's heat shuts it down. It returns nil
// when the unit is already shut down or below the shutdown scale.
func Shutdown(u *unit.Unit, turn int, src dice.Source, r rules.Provider) *core.ShutdownCheckData {
	if u.IsShutdown() {
		return nil
	}
	th, ok := r.ShutdownCheck(u.Heat)
	if !ok {
		return nil
	}
	data := &core.ShutdownCheckData{Heat: u.Heat, Target: th.Target, IsAutomatic: th.Automatic}
	if th.Automatic {
		data.Shutdown = true
	} else {
		data.Roll = dice.Roll2D6(src)
		data.Shutdown = core.Sum(data.Roll) < th.Target
	}
	if data.Shutdown {
		u.Shutdown = &core.ShutdownData{Reason: core.ShutdownHeat, Turn: turn}
	}
	return data
}

// AmmoExplosion checks whether heat cooks off the unit's most dangerous ammo
// bin. Ties go to the earlier location, then the lower slot. It returns nil
// below the explosion scale or when no bin can explode. The bin itself is
// left intact: the caller detonates it through the damage cascade.
func AmmoExplosion(u *unit.Unit, src dice.Source, r rules.Provider) *core.AmmoExplosionCheckData {
	th, ok := r.AmmoExplosionCheck(u.Heat)
	if !ok {
		return nil
	}
	bin, loc := mostDangerousBin(u)
	if bin == nil {
		return nil
	}
	data := &core.AmmoExplosionCheckData{Heat: u.Heat, Target: th.Target, Roll: dice.Roll2D6(src)}
	data.Exploded = core.Sum(data.Roll) < th.Target
	if data.Exploded {
		data.Location = loc
		data.ComponentID = bin.ID
		data.Damage = bin.ExplosionDamage()
	}
	return data
}

func mostDangerousBin(u *unit.Unit) (*unit.Component, core.Location) {
	var (
		best    *unit.Component
		bestLoc core.Location
		bestDmg int
	)
	for _, p := range u.Parts() {
		if p.Destroyed() {
			continue
		}
		for slot := 0; slot < p.SlotCount(); slot++ {
			c, _ := p.ComponentAt(slot)
			if c == nil || c.Kind != unit.Ammo || c.Slots[0] != slot {
				continue
			}
			if dmg := c.ExplosionDamage(); dmg > bestDmg {
				best, bestLoc, bestDmg = c, p.Location, dmg
			}
		}
	}
	return best, bestLoc
}

// LifeSupport returns the pilot damage heat deals through damaged life support.
func LifeSupport(u *unit.Unit, r rules.Provider) int {
	if u.ComponentHits(unit.LifeSupport) == 0 {
		return 0
	}
	return r.LifeSupportInjuries(u.Heat)
}
