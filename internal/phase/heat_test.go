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

func heatFixture(t *testing.T) *fixture {
	f := newFixture(t, game.Heat, game.Heat)
	f.g.Turn = 2
	return f
}

func TestHeat_AutomaticRestartOnlyAfterEarlierTurn(t *testing.T) {
	f := heatFixture(t)
	old := f.mech(f.p1, "Old", battlemap.Coord{Col: 1, Row: 1}, battlemap.South, nil)
	old.Heat = 5
	old.Shutdown = &core.ShutdownData{Reason: core.ShutdownHeat, Turn: 1}
	fresh := f.mech(f.p2, "Fresh", battlemap.Coord{Col: 1, Row: 5}, battlemap.North, nil)
	fresh.Shutdown = &core.ShutdownData{Reason: core.ShutdownHeat, Turn: 2}

	f.start()

	assert.Equal(t, 0, f.dice.Calls())
	assert.Equal(t, []command.Type{
		command.TypeHeatUpdated,
		command.TypeUnitStartup,
		command.TypeHeatUpdated,
	}, types(f.g))
	startup := published[*command.UnitStartup](f.g)[0]
	assert.Equal(t, old.ID, startup.UnitID)
	assert.True(t, startup.IsAutomaticRestart)
	assert.True(t, startup.Data.Success)
	assert.False(t, old.IsShutdown())
	assert.True(t, fresh.IsShutdown())
}

func TestHeat_ShutdownKnocksUnitDown(t *testing.T) {
	f := heatFixture(t)
	hot := f.mech(f.p1, "Hot", battlemap.Coord{Col: 1, Row: 1}, battlemap.South, nil)
	hot.Heat = 45
	f.dice.Push(
		dice.OneD6(1),  // falls forward
		dice.TwoD6(7),  // center torso
		dice.TwoD6(10), // pilot avoids damage
	)

	f.start()

	assert.Equal(t, 35, hot.Heat)
	assert.Equal(t, []command.Type{
		command.TypeHeatUpdated,
		command.TypeUnitShutdown,
		command.TypeMechFall,
	}, types(f.g))
	sd := published[*command.UnitShutdown](f.g)[0]
	require.NotNil(t, sd.Data)
	assert.Equal(t, core.ShutdownHeat, sd.Data.Reason)
	assert.Equal(t, 2, sd.Data.Turn)
	assert.True(t, sd.Check.IsAutomatic)
	assert.True(t, hot.Prone)
	assert.Equal(t, []string{"Shutdown"}, published[*command.MechFall](f.g)[0].Data.Reasons)
}

func TestHeat_AmmoExplosionRunsTheCascade(t *testing.T) {
	f := heatFixture(t)
	hot := f.mech(f.p1, "Hot", battlemap.Coord{Col: 1, Row: 1}, battlemap.South, nil)
	f.mount(hot, core.RightTorso, unit.NewAmmo("AC/20 Ammo", unit.AmmoStats{AmmoType: "AC20", Shots: 5, DamagePerShot: 20}), 0)
	f.mech(f.p2, "Other", battlemap.Coord{Col: 1, Row: 5}, battlemap.North, nil)
	hot.Heat = 39
	f.dice.Push(
		dice.TwoD6(12), // avoids shutdown
		dice.TwoD6(2),  // ammo cooks off
	)

	f.start()

	assert.Equal(t, 2, f.dice.Calls())
	assert.Equal(t, []command.Type{
		command.TypeHeatUpdated,
		command.TypeUnitShutdown,
		command.TypeAmmoExplosion,
		command.TypeUnitDestroyed,
		command.TypeHeatUpdated,
	}, types(f.g))
	sd := published[*command.UnitShutdown](f.g)[0]
	assert.Nil(t, sd.Data)
	assert.False(t, sd.Check.Shutdown)

	boom := published[*command.AmmoExplosion](f.g)[0]
	assert.True(t, boom.Data.Exploded)
	assert.Equal(t, 100, boom.Data.Damage)
	assert.True(t, boom.UnitDestroyed)
	assert.Contains(t, boom.DestroyedParts, core.RightTorso)
	assert.True(t, hot.IsDestroyed())
}

func TestHeat_UnconsciousPilotRecovers(t *testing.T) {
	f := heatFixture(t)
	u := f.mech(f.p1, "Sleepy", battlemap.Coord{Col: 1, Row: 1}, battlemap.South, nil)
	u.Pilot.Injuries = 1
	u.Pilot.Unconscious = true
	u.Pilot.KnockedOutTurn = 1
	f.dice.Push(dice.TwoD6(12))

	f.start()

	assert.Equal(t, []command.Type{
		command.TypeHeatUpdated,
		command.TypePilotConsciousnessRoll,
	}, types(f.g))
	assert.False(t, u.Pilot.Unconscious)
}

func TestHeat_LifeSupportInjuresPilot(t *testing.T) {
	f := heatFixture(t)
	u := f.mech(f.p1, "Cooked", battlemap.Coord{Col: 1, Row: 1}, battlemap.South, nil)
	u.ComponentsOfKind(unit.LifeSupport)[0].Hit()
	u.Heat = 25
	f.dice.Push(
		dice.TwoD6(12), // avoids shutdown at 15
		dice.TwoD6(12), // stays conscious
	)

	f.start()

	assert.Equal(t, 1, u.Pilot.Injuries)
	assert.Equal(t, []command.Type{
		command.TypeHeatUpdated,
		command.TypeUnitShutdown,
		command.TypePilotConsciousnessRoll,
	}, types(f.g))
}
