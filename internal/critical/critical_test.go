package critical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/dice/mocks"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

func newUnit(t *testing.T) *unit.Unit {
	t.Helper()
	u, err := unit.NewBiped("Target", 50, 5, 0, nil, nil)
	require.NoError(t, err)
	laser := unit.NewWeapon("Medium Laser", unit.WeaponStats{Kind: unit.Energy, Damage: 5, Heat: 3, ShortRange: 3, MediumRange: 6, LongRange: 9})
	require.NoError(t, u.Part(core.RightArm).Mount(laser, 4))
	return u
}

func TestDetermine_NoCriticalBelowEight(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().RollNDice(2).Return([]int{3, 4}).Times(1)

	data := Determine(newUnit(t), core.CenterTorso, src, rules.NewClassic())

	assert.Equal(t, 0, data.NumCriticalHits)
	assert.Empty(t, data.HitComponents)
	assert.False(t, data.IsBlownOff)
}

func TestDetermine_TwelveBlowsOffArm(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().RollNDice(2).Return([]int{6, 6}).Times(1)

	data := Determine(newUnit(t), core.LeftArm, src, rules.NewClassic())

	assert.True(t, data.IsBlownOff)
	assert.Empty(t, data.HitComponents)
	assert.Equal(t, []int{6, 6}, data.Roll)
}

func TestDetermine_BlockThenSlot(t *testing.T) {
	src := dice.NewScripted(dice.TwoD6(8), dice.OneD6(1), dice.OneD6(4))

	data := Determine(newUnit(t), core.CenterTorso, src, rules.NewClassic())

	require.Len(t, data.HitComponents, 1)
	assert.Equal(t, 3, data.HitComponents[0].Slot)
	assert.Equal(t, "Gyro", data.HitComponents[0].ComponentKind)
	assert.Equal(t, 0, src.Remaining())
}

func TestDetermine_RerollsEmptySlots(t *testing.T) {
	src := dice.NewScripted(
		dice.TwoD6(9),
		dice.OneD6(5), dice.OneD6(2), // slot 7 is empty
		dice.OneD6(1), dice.OneD6(5), // slot 4 holds the laser
	)

	data := Determine(newUnit(t), core.RightArm, src, rules.NewClassic())

	require.Len(t, data.HitComponents, 1)
	assert.Equal(t, "Medium Laser", data.HitComponents[0].ComponentName)
	assert.Equal(t, "RA:4", data.HitComponents[0].ComponentID)
	assert.Equal(t, 5, src.Calls())
}

func TestDetermine_SameCheckNeverHitsSlotTwice(t *testing.T) {
	src := dice.NewScripted(
		dice.TwoD6(10),
		dice.OneD6(2),
		dice.OneD6(2), dice.OneD6(4), dice.OneD6(5),
	)

	data := Determine(newUnit(t), core.Head, src, rules.NewClassic())

	require.Len(t, data.HitComponents, 2)
	assert.Equal(t, 1, data.HitComponents[0].Slot)
	assert.Equal(t, 4, data.HitComponents[1].Slot)
	assert.Equal(t, 0, src.Remaining())
}

func TestDetermine_NothingToHit(t *testing.T) {
	src := dice.NewScripted(dice.TwoD6(11))

	data := Determine(newUnit(t), core.LeftTorso, src, rules.NewClassic())

	assert.Equal(t, 2, data.NumCriticalHits)
	assert.Empty(t, data.HitComponents)
	assert.Equal(t, 1, src.Calls())
}

func TestApply_AmmoExplodesOnce(t *testing.T) {
	u := newUnit(t)
	ammo := unit.NewAmmo("AC/10 Ammo", unit.AmmoStats{AmmoType: "AC10", Shots: 10, DamagePerShot: 10})
	require.NoError(t, u.Part(core.LeftTorso).Mount(ammo, 0))
	data := core.LocationCriticalHitsData{
		Location:      core.LeftTorso,
		HitComponents: []core.ComponentHitData{{Slot: 0}},
	}

	effects := Apply(u, data)

	require.Len(t, effects, 1)
	assert.Equal(t, 100, effects[0].ExplosionDamage)
	assert.True(t, ammo.HasExploded)
	assert.True(t, u.Part(core.LeftTorso).IsSlotHit(0))

	again := Apply(u, data)
	assert.Equal(t, 0, again[0].ExplosionDamage)
}

func TestApply_CockpitKillsPilot(t *testing.T) {
	u := newUnit(t)

	effects := Apply(u, core.LocationCriticalHitsData{
		Location:      core.Head,
		HitComponents: []core.ComponentHitData{{Slot: 2}},
	})

	require.Len(t, effects, 1)
	assert.True(t, effects[0].PilotKilled)
	assert.True(t, u.Pilot.Dead())
	assert.True(t, u.CheckDestroyed())
}

func TestApply_EngineNeedsThreeHits(t *testing.T) {
	u := newUnit(t)
	hit := func(slot int) []Effect {
		return Apply(u, core.LocationCriticalHitsData{
			Location:      core.CenterTorso,
			HitComponents: []core.ComponentHitData{{Slot: slot}},
		})
	}

	assert.False(t, hit(0)[0].Destroyed)
	assert.False(t, hit(1)[0].Destroyed)
	assert.True(t, hit(7)[0].Destroyed)
	assert.Equal(t, 3, u.ComponentHits(unit.Engine))
}
