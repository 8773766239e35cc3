// Package rules holds the data-driven tables of a ruleset. Calculators take a
// Provider so a different ruleset can be swapped in without touching them.
package rules

import (
	"github.com/ironhex/combat/pkg/core"
)

// Threshold is a heat driven check: at or above a heat level the check is
// rolled against Target, or happens without a roll when Automatic is set.
type Threshold struct {
	Heat      int
	Target    int
	Automatic bool
}

// PsrModifiers are the piloting skill roll modifiers of pre-existing damage
// and of the events that trigger a roll.
type PsrModifiers struct {
	GyroHit        int
	LegDestroyed   int
	HipHit         int
	LegActuatorHit int
	HeavyDamage    int
	Shutdown       int
	Jumping        int
	StandUp        int
}

// Provider exposes every table and threshold the engine consults.
type Provider interface {
	// HitLocation maps a 2d6 total to a location for an attack direction.
	HitLocation(dir core.AttackDirection, roll int) core.Location
	// ClusterHits returns the number of missiles that hit for a rack size and
	// a 2d6 total.
	ClusterHits(rackSize, roll int) int
	// CriticalHits returns the number of critical hits for a 2d6 total and
	// whether the location is blown off instead.
	CriticalHits(loc core.Location, roll int) (hits int, blownOff bool)
	// AimedShotHits reports whether an aimed shot roll strikes the declared location.
	AimedShotHits(roll int) bool
	AimedShotModifier() int
	HeavyDamageThreshold() int
	ExternalHeatCap() int
	MovementHeat(mode core.MovementMode, mpUsed int) int
	EngineHitHeat() int
	HeatToHitModifier(heat int) int
	HeatMovementPenalty(heat int) int
	// ShutdownCheck returns the shutdown avoidance threshold for a heat level.
	ShutdownCheck(heat int) (Threshold, bool)
	// RestartCheck returns the restart threshold for a unit shut down by heat.
	RestartCheck(heat int) (Threshold, bool)
	// AmmoExplosionCheck returns the ammo explosion avoidance threshold.
	AmmoExplosionCheck(heat int) (Threshold, bool)
	// ConsciousnessTarget returns the 2d6 target to stay conscious with the
	// given number of injuries, false if the pilot is dead.
	ConsciousnessTarget(injuries int) (int, bool)
	TargetMovementModifier(hexesMoved int, jumped bool) int
	// FallingDamage is the total damage a unit of the tonnage takes in a fall.
	FallingDamage(tonnage int) int
	FallingDamageGroup() int
	// LifeSupportInjuries is the pilot damage taken at a heat level with
	// damaged life support.
	LifeSupportInjuries(heat int) int
	Psr() PsrModifiers
}
