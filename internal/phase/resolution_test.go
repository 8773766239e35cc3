package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// duel sets up an attacker of player one four hexes north of a target of
// player two, both facing each other. The attacker walked, so a medium laser
// needs a 7.
func duel(t *testing.T, targetArmor map[core.Location]int) (*fixture, *unit.Unit, *unit.Unit) {
	f := newFixture(t, game.WeaponAttackResolution, game.WeaponAttackResolution)
	attacker := f.mech(f.p1, "Attacker", battlemap.Coord{Col: 1, Row: 1}, battlemap.South, nil)
	attacker.Movement.Mode = core.Walk
	target := f.mech(f.p2, "Target", battlemap.Coord{Col: 1, Row: 5}, battlemap.North, targetArmor)
	return f, attacker, target
}

func declare(f *fixture, attacker *unit.Unit, w *unit.Component, target *unit.Unit) *game.Attack {
	a := &game.Attack{AttackerID: attacker.ID, WeaponID: w.ID, TargetID: target.ID, IsPrimary: true}
	f.g.Attacks = append(f.g.Attacks, a)
	return a
}

func TestResolution_HitOnCenterTorso(t *testing.T) {
	f, attacker, target := duel(t, map[core.Location]int{core.CenterTorso: 10})
	laser := f.mount(attacker, core.RightArm, mediumLaser(), 5)
	declare(f, attacker, laser, target)
	f.dice.Push(dice.TwoD6(8), dice.TwoD6(7))

	f.start()

	require.Equal(t, stopped, f.phase())
	assert.Equal(t, 2, f.dice.Calls())
	res := published[*command.WeaponAttackResolution](f.g)
	require.Len(t, res, 1)
	data := res[0].Data
	assert.Equal(t, 7, data.ToHitNumber)
	assert.True(t, data.IsHit)
	assert.Equal(t, core.FromFront, data.AttackDirection)
	require.NotNil(t, data.HitLocationsData)
	require.Len(t, data.HitLocationsData.HitLocations, 1)
	assert.Equal(t, []core.LocationDamageData{
		{Location: core.CenterTorso, ArmorDamage: 5, StructureDamage: 0, IsLocationDestroyed: false},
	}, data.HitLocationsData.HitLocations[0].Damage)
	assert.Equal(t, 5, target.Part(core.CenterTorso).Armor)
	assert.Equal(t, []command.Type{command.TypeWeaponAttackResolution}, types(f.g))
}

func TestResolution_MissRollsOnce(t *testing.T) {
	f, attacker, target := duel(t, nil)
	laser := f.mount(attacker, core.RightArm, mediumLaser(), 5)
	a := declare(f, attacker, laser, target)
	f.dice.Push(dice.TwoD6(6))

	f.start()

	assert.Equal(t, 1, f.dice.Calls())
	assert.True(t, a.Resolved)
	res := published[*command.WeaponAttackResolution](f.g)
	require.Len(t, res, 1)
	assert.False(t, res[0].Data.IsHit)
	assert.Nil(t, res[0].Data.HitLocationsData)
	assert.Empty(t, published[*command.CriticalHitsResolution](f.g))
}

func TestResolution_ClusterGroups(t *testing.T) {
	f := newFixture(t, game.WeaponAttackResolution, game.WeaponAttackResolution)
	attacker := f.mech(f.p1, "Archer", battlemap.Coord{Col: 1, Row: 1}, battlemap.South, nil)
	attacker.Movement.Mode = core.Walk
	target := f.mech(f.p2, "Target", battlemap.Coord{Col: 1, Row: 9}, battlemap.North, nil)
	lrm := f.mount(attacker, core.LeftTorso, lrm10(), 0, 1)
	declare(f, attacker, lrm, target)
	f.dice.Push(
		dice.TwoD6(8), // hit against 7
		dice.TwoD6(9), // eight missiles
		dice.TwoD6(7), // first group
		dice.TwoD6(7), // second group
	)

	f.start()

	assert.Equal(t, 4, f.dice.Calls())
	data := published[*command.WeaponAttackResolution](f.g)[0].Data
	assert.Equal(t, 7, data.ToHitNumber)
	hits := data.HitLocationsData
	require.NotNil(t, hits)
	assert.Equal(t, 8, hits.MissilesHit)
	assert.Equal(t, 8, hits.TotalDamage)
	require.Len(t, hits.HitLocations, 2)
	assert.Equal(t, 5, hits.HitLocations[0].TotalDamage())
	assert.Equal(t, 3, hits.HitLocations[1].TotalDamage())
	assert.NotEmpty(t, hits.HitLocations[0].LocationRoll)
	assert.NotEmpty(t, hits.HitLocations[1].LocationRoll)
}

func TestResolution_BlownOffArmReachesFallCheck(t *testing.T) {
	f, attacker, target := duel(t, map[core.Location]int{core.LeftArm: 0})
	laser := f.mount(attacker, core.RightArm, mediumLaser(), 5)
	declare(f, attacker, laser, target)
	f.dice.Push(dice.TwoD6(8), dice.TwoD6(10), dice.TwoD6(12))

	f.start()

	assert.Equal(t, 3, f.dice.Calls())
	assert.True(t, target.Part(core.LeftArm).Destroyed())
	data := published[*command.WeaponAttackResolution](f.g)[0].Data
	assert.Equal(t, []core.Location{core.LeftArm}, data.DestroyedParts)

	crits := published[*command.CriticalHitsResolution](f.g)
	require.Len(t, crits, 1)
	require.Len(t, crits[0].Data.Locations, 1)
	assert.True(t, crits[0].Data.Locations[0].IsBlownOff)
	assert.Empty(t, crits[0].Data.Locations[0].HitComponents)
	assert.Empty(t, published[*command.MechFall](f.g), "an arm gives no reason to fall")
}

func TestResolution_LegDestroyedByDamageFallsAutomatically(t *testing.T) {
	f, attacker, target := duel(t, map[core.Location]int{core.LeftLeg: 0})
	ac20 := f.mount(attacker, core.RightTorso, unit.NewWeapon("AC/20", unit.WeaponStats{
		Kind: unit.Ballistic, Damage: 20, Heat: 7, ShortRange: 3, MediumRange: 6, LongRange: 9,
	}), 0, 1, 2)
	declare(f, attacker, ac20, target)
	f.dice.Push(
		dice.TwoD6(12), // hit
		dice.TwoD6(9),  // left leg, 12 structure, 8 transfer to the left torso armor
		dice.OneD6(1),  // falls forward
		dice.TwoD6(7),  // falling damage on the center torso armor
		dice.TwoD6(12), // pilot avoids damage
	)

	f.start()

	assert.Equal(t, 0, f.dice.Remaining())
	assert.True(t, target.Part(core.LeftLeg).Destroyed())
	data := published[*command.WeaponAttackResolution](f.g)[0].Data
	assert.Equal(t, []core.Location{core.LeftLeg}, data.DestroyedParts)

	falls := published[*command.MechFall](f.g)
	require.Len(t, falls, 1)
	fall := falls[0].Data
	assert.True(t, fall.IsAutomatic)
	assert.True(t, fall.Fell)
	assert.Equal(t, []string{"LegDestroyed"}, fall.Reasons)
	assert.Empty(t, fall.Psrs, "no heavy damage roll once the fall is automatic")
	assert.True(t, target.Prone)
	assert.False(t, target.IsDestroyed())
}

func TestResolution_SideTorsoTakesArmWithIt(t *testing.T) {
	f, attacker, target := duel(t, map[core.Location]int{core.LeftTorso: 0})
	target.Part(core.LeftTorso).Structure = 5
	laser := f.mount(attacker, core.RightArm, mediumLaser(), 5)
	armLaser := f.mount(target, core.LeftArm, mediumLaser(), 5)
	declare(f, attacker, laser, target)
	f.dice.Push(dice.TwoD6(8), dice.TwoD6(8))

	f.start()

	assert.Equal(t, 2, f.dice.Calls())
	data := published[*command.WeaponAttackResolution](f.g)[0].Data
	assert.Equal(t, []core.Location{core.LeftTorso, core.LeftArm}, data.DestroyedParts)
	assert.True(t, target.Part(core.LeftArm).Destroyed())
	assert.True(t, armLaser.Destroyed)
	assert.Empty(t, published[*command.CriticalHitsResolution](f.g))
	assert.Empty(t, published[*command.MechFall](f.g))
	assert.False(t, target.IsDestroyed())
}

func TestResolution_PublishesInCausalOrder(t *testing.T) {
	f, attacker, target := duel(t, map[core.Location]int{core.CenterTorso: 0})
	laser := f.mount(attacker, core.RightArm, mediumLaser(), 5)
	declare(f, attacker, laser, target)
	f.dice.Push(
		dice.TwoD6(8),  // hit
		dice.TwoD6(7),  // center torso, structure damage
		dice.TwoD6(8),  // one critical hit
		dice.OneD6(1),  // lower block
		dice.OneD6(4),  // slot 3, gyro
		dice.TwoD6(2),  // gyro hit PSR fails against 8
		dice.OneD6(1),  // falls forward
		dice.TwoD6(7),  // falling damage on the center torso
		dice.TwoD6(2),  // no critical hit
		dice.TwoD6(2),  // pilot fails to avoid damage
		dice.TwoD6(12), // stays conscious
	)

	f.start()

	assert.Equal(t, 0, f.dice.Remaining())
	assert.Equal(t, []command.Type{
		command.TypeWeaponAttackResolution,
		command.TypeCriticalHitsResolution,
		command.TypeMechFall,
		command.TypePilotConsciousnessRoll,
	}, types(f.g))
	assert.True(t, target.Prone)
	assert.Equal(t, 1, target.Pilot.Injuries)
	fall := published[*command.MechFall](f.g)[0].Data
	assert.True(t, fall.Fell)
	assert.True(t, fall.PilotInjured)
	assert.Equal(t, []string{"GyroHit"}, fall.Reasons)
}

func TestResolution_DestroyedTargetIsSkipped(t *testing.T) {
	f := newFixture(t, game.WeaponAttackResolution, game.WeaponAttackResolution)
	a1 := f.mech(f.p1, "Attacker", battlemap.Coord{Col: 1, Row: 1}, battlemap.South, nil)
	target := f.mech(f.p2, "Target", battlemap.Coord{Col: 1, Row: 5}, battlemap.North, map[core.Location]int{core.CenterTorso: 0})
	other := f.mech(f.p2, "Other", battlemap.Coord{Col: 3, Row: 2}, battlemap.North, nil)

	ac20 := f.mount(a1, core.RightTorso, unit.NewWeapon("AC/20", unit.WeaponStats{
		Kind: unit.Ballistic, Damage: 20, Heat: 7, ShortRange: 3, MediumRange: 6, LongRange: 9,
	}), 0, 1, 2)
	laser := f.mount(a1, core.RightArm, mediumLaser(), 5)
	otherLaser := f.mount(other, core.RightArm, mediumLaser(), 5)

	// declared before player one's attacks but resolved after them
	returnFire := declare(f, other, otherLaser, a1)
	kill := declare(f, a1, ac20, target)
	followUp := declare(f, a1, laser, target)
	f.dice.Push(
		dice.TwoD6(12), // AC/20 hits
		dice.TwoD6(7),  // center torso destroyed
		dice.TwoD6(2),  // return fire misses
	)

	f.start()

	assert.Equal(t, 3, f.dice.Calls())
	assert.True(t, target.IsDestroyed())
	for _, a := range []*game.Attack{returnFire, kill, followUp} {
		assert.True(t, a.Resolved)
	}
	assert.Equal(t, []command.Type{
		command.TypeWeaponAttackResolution,
		command.TypeUnitDestroyed,
		command.TypeWeaponAttackResolution,
	}, types(f.g))
	res := published[*command.WeaponAttackResolution](f.g)
	assert.True(t, res[0].Data.UnitDestroyed)
	assert.Equal(t, other.ID, res[1].Data.AttackerID)
	assert.Equal(t, "center torso destroyed", published[*command.UnitDestroyed](f.g)[0].Cause)
}

func TestResolution_MissingMapFailsBeforePublishing(t *testing.T) {
	f, attacker, target := duel(t, nil)
	laser := f.mount(attacker, core.RightArm, mediumLaser(), 5)
	declare(f, attacker, laser, target)
	f.g.Map = nil

	err := f.g.Start()

	require.ErrorIs(t, err, ErrMissingMap)
	assert.Empty(t, f.g.Outbox())
	assert.Equal(t, 0, f.dice.Calls())
}

func TestResolution_ExternalHeat(t *testing.T) {
	f, attacker, target := duel(t, nil)
	flamer := f.mount(attacker, core.RightArm, unit.NewWeapon("Flamer", unit.WeaponStats{
		Kind: unit.Energy, Damage: 2, Heat: 3, ShortRange: 1, MediumRange: 2, LongRange: 5, ExternalHeat: 2,
	}), 5)
	declare(f, attacker, flamer, target)
	f.dice.Push(dice.TwoD6(12), dice.TwoD6(7))

	f.start()

	data := published[*command.WeaponAttackResolution](f.g)[0].Data
	assert.Equal(t, 2, data.ExternalHeat)
	assert.Equal(t, 2, target.ExternalHeat)
}
