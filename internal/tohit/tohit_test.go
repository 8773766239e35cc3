package tohit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

type fixture struct {
	attacker *unit.Unit
	target   *unit.Unit
	laser    *unit.Component
	lrm      *unit.Component
	board    *battlemap.HexMap
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	attacker, err := unit.NewBiped("Attacker", 50, 5, 0, unit.NewPilot("A", 4, 5), nil)
	require.NoError(t, err)
	target, err := unit.NewBiped("Target", 50, 5, 0, nil, nil)
	require.NoError(t, err)

	laser := unit.NewWeapon("Medium Laser", unit.WeaponStats{
		Kind: unit.Energy, Damage: 5, Heat: 3, ShortRange: 3, MediumRange: 6, LongRange: 9,
	})
	require.NoError(t, attacker.Part(core.RightArm).Mount(laser, 4))
	lrm := unit.NewWeapon("LRM 10", unit.WeaponStats{
		Kind: unit.Missile, Damage: 1, Heat: 4, MinRange: 6, ShortRange: 7, MediumRange: 14, LongRange: 21,
		RackSize: 10, ClusterSize: 5,
	})
	require.NoError(t, attacker.Part(core.LeftTorso).Mount(lrm, 0, 1))

	attacker.Position = battlemap.Coord{Col: 0, Row: 0}
	target.Position = battlemap.Coord{Col: 0, Row: 3}
	return &fixture{attacker: attacker, target: target, laser: laser, lrm: lrm, board: battlemap.New(10, 20)}
}

func (f *fixture) input(w *unit.Component) Input {
	return Input{
		Attacker:        f.attacker,
		Target:          f.target,
		Weapon:          w,
		Map:             f.board,
		Rules:           rules.NewClassic(),
		IsPrimaryTarget: true,
	}
}

func modifier(b Breakdown, name string) (int, bool) {
	for _, m := range b.Modifiers {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

func TestCalculate_BaseIsGunnery(t *testing.T) {
	f := newFixture(t)

	b := Calculate(f.input(f.laser))

	assert.False(t, b.Impossible)
	assert.Equal(t, 4, b.Total)
	assert.Equal(t, []core.Modifier{{Name: "gunnery", Value: 4}}, b.Modifiers)
}

func TestCalculate_MovementAndRange(t *testing.T) {
	f := newFixture(t)
	f.attacker.Movement = unit.Movement{Mode: core.Run, HexesMoved: 6}
	f.target.Movement = unit.Movement{Mode: core.Jump, HexesMoved: 5}
	f.target.Position = battlemap.Coord{Col: 0, Row: 5}

	b := Calculate(f.input(f.laser))

	// gunnery 4, ran 2, target jumped 5 hexes 2+1, medium range 2
	assert.Equal(t, 11, b.Total)
	v, ok := modifier(b, "target movement")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestCalculate_OutOfRange(t *testing.T) {
	f := newFixture(t)
	f.target.Position = battlemap.Coord{Col: 0, Row: 10}

	b := Calculate(f.input(f.laser))

	assert.True(t, b.Impossible)
	assert.Contains(t, b.Reason, "out of range")
}

func TestCalculate_MinimumRange(t *testing.T) {
	f := newFixture(t)

	b := Calculate(f.input(f.lrm))

	v, ok := modifier(b, "minimum range")
	require.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestCalculate_TerrainAndSecondary(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.Set(battlemap.Hex{Coord: battlemap.Coord{Col: 0, Row: 1}, Terrain: battlemap.LightWoods}))
	require.NoError(t, f.board.Set(battlemap.Hex{Coord: f.target.Position, Terrain: battlemap.HeavyWoods}))
	in := f.input(f.laser)
	in.IsPrimaryTarget = false

	b := Calculate(in)

	assert.Equal(t, 4+1+2+1, b.Total)
}

func TestCalculate_NoLineOfSight(t *testing.T) {
	f := newFixture(t)
	for row := 1; row <= 2; row++ {
		require.NoError(t, f.board.Set(battlemap.Hex{Coord: battlemap.Coord{Col: 0, Row: row}, Terrain: battlemap.HeavyWoods}))
	}

	b := Calculate(f.input(f.laser))

	assert.True(t, b.Impossible)
	assert.Equal(t, "no line of sight", b.Reason)
}

func TestCalculate_ImmobileAndAimed(t *testing.T) {
	f := newFixture(t)
	f.target.Shutdown = &core.ShutdownData{Reason: core.ShutdownHeat, Turn: 1}
	head := core.Head
	in := f.input(f.laser)
	in.AimedLocation = &head

	b := Calculate(in)

	assert.False(t, b.Impossible)
	assert.Equal(t, 4-4+3, b.Total)
}

func TestCalculate_AimedRequiresImmobileTarget(t *testing.T) {
	f := newFixture(t)
	ct := core.CenterTorso
	in := f.input(f.laser)
	in.AimedLocation = &ct

	assert.True(t, Calculate(in).Impossible)

	f.target.Shutdown = &core.ShutdownData{}
	in = f.input(f.lrm)
	in.AimedLocation = &ct
	assert.True(t, Calculate(in).Impossible, "cluster weapons cannot aim")
}

func TestCalculate_AttackerDamage(t *testing.T) {
	f := newFixture(t)
	f.attacker.Prone = true
	f.attacker.Heat = 13
	sensors := f.attacker.ComponentsOfKind(unit.Sensors)[0]
	sensors.Hit()

	b := Calculate(f.input(f.laser))

	// gunnery 4, heat 2, sensors 2, prone 2
	assert.Equal(t, 10, b.Total)

	sensors.Hit()
	assert.True(t, Calculate(f.input(f.laser)).Impossible)
}

func TestCalculate_ArmActuators(t *testing.T) {
	f := newFixture(t)
	arm := f.attacker.Part(core.RightArm)
	upper, err := arm.ComponentAt(1)
	require.NoError(t, err)
	upper.Hit()

	assert.Equal(t, 5, Calculate(f.input(f.laser)).Total)

	shoulder, err := arm.ComponentAt(0)
	require.NoError(t, err)
	shoulder.Hit()
	assert.Equal(t, 8, Calculate(f.input(f.laser)).Total)
}

func TestCalculate_ProneTarget(t *testing.T) {
	f := newFixture(t)
	f.target.Prone = true

	assert.Equal(t, 5, Calculate(f.input(f.laser)).Total)

	f.target.Position = battlemap.Coord{Col: 0, Row: 1}
	assert.Equal(t, 2, Calculate(f.input(f.laser)).Total)
}

func TestCalculate_AboveTwelveIsImpossible(t *testing.T) {
	f := newFixture(t)
	f.attacker.Pilot.Gunnery = 8
	f.attacker.Movement = unit.Movement{Mode: core.Jump}
	f.target.Position = battlemap.Coord{Col: 0, Row: 8}

	b := Calculate(f.input(f.laser))

	assert.True(t, b.Impossible)
	assert.Equal(t, 15, b.Total)
}
