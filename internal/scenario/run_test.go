package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/phase"
	"github.com/ironhex/combat/pkg/command"
)

func newDuel(t *testing.T, autoRoll bool) (*game.Game, *Scenario) {
	t.Helper()
	s, err := Load("testdata/duel.yaml")
	require.NoError(t, err)
	g := game.New(game.Options{
		Map:                s.Map,
		Dice:               dice.NewSeeded(s.Seed),
		Manager:            phase.NewManager(game.Start),
		AutoRollInitiative: autoRoll,
	})
	require.NoError(t, s.Apply(g))
	g.Subscribe(NewAutopilot(g, s))
	return g, s
}

func count(g *game.Game, t command.Type) int {
	n := 0
	for _, cmd := range g.Outbox() {
		if cmd.Type() == t {
			n++
		}
	}
	return n
}

func TestRun_PlaysTheBattle(t *testing.T) {
	g, s := newDuel(t, true)

	err := Run(context.Background(), g, 30)
	if err != nil {
		require.ErrorIs(t, err, ErrTurnLimit)
	}

	assert.Equal(t, 2, count(g, command.TypeUnitDeployed))
	assert.Positive(t, count(g, command.TypeUnitMoved))
	assert.Positive(t, count(g, command.TypeWeaponAttacksDeclared))
	assert.Positive(t, count(g, command.TypeWeaponAttackResolution), "the units close in and fire")
	assert.Positive(t, count(g, command.TypeHeatUpdated))

	enforcer := s.Players[0].Units[0].Unit
	trebuchet := s.Players[1].Units[0].Unit
	assert.NotEqual(t, enforcer.Position, trebuchet.Position)

	if err == nil {
		assert.True(t, g.Over)
		assert.Equal(t, 1, count(g, command.TypeGameOver))
	}
}

func TestRun_SameSeedSameBattle(t *testing.T) {
	g1, _ := newDuel(t, true)
	g2, _ := newDuel(t, true)
	err1 := Run(context.Background(), g1, 5)
	err2 := Run(context.Background(), g2, 5)
	assert.Equal(t, err1 == nil, err2 == nil)

	require.Equal(t, len(g1.Outbox()), len(g2.Outbox()))
	for i := range g1.Outbox() {
		assert.Equal(t, g1.Outbox()[i].Type(), g2.Outbox()[i].Type())
	}
}

func TestRun_ManualInitiative(t *testing.T) {
	g, _ := newDuel(t, false)

	err := Run(context.Background(), g, 2)
	if err != nil {
		require.ErrorIs(t, err, ErrTurnLimit)
	}
	assert.GreaterOrEqual(t, count(g, command.TypeDiceRolled), 4, "both players roll on both turns")
	assert.GreaterOrEqual(t, g.Turn, 2)
}

func TestRun_TurnLimit(t *testing.T) {
	g, _ := newDuel(t, true)
	err := Run(context.Background(), g, 1)
	if !g.Over {
		assert.ErrorIs(t, err, ErrTurnLimit)
		assert.Equal(t, 2, g.Turn)
	}
}

func TestRun_Cancelled(t *testing.T) {
	g, _ := newDuel(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, g, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_StallsWithoutAutopilot(t *testing.T) {
	s, err := Load("testdata/duel.yaml")
	require.NoError(t, err)
	g := game.New(game.Options{Map: s.Map, Manager: phase.NewManager(game.Start)})
	require.NoError(t, s.Apply(g))

	err = Run(context.Background(), g, 0)
	assert.ErrorIs(t, err, ErrStalled)
	assert.Equal(t, game.Start, g.Phase().Name())
}

func TestAutopilot_DeploysToFreeHexWhenTaken(t *testing.T) {
	g, s := newDuel(t, true)
	// both units want the same hex
	s.Players[1].Units[0].Position = s.Players[0].Units[0].Position

	require.NoError(t, g.Start())
	for g.Phase().Name() == game.Start || g.Phase().Name() == game.Deployment {
		ok, err := g.Step()
		require.NoError(t, err)
		require.True(t, ok)
	}

	enforcer := s.Players[0].Units[0].Unit
	trebuchet := s.Players[1].Units[0].Unit
	assert.True(t, enforcer.Deployed)
	assert.True(t, trebuchet.Deployed)
	assert.NotEqual(t, enforcer.Position, trebuchet.Position)
}

func TestAutopilot_Declaration(t *testing.T) {
	g, s := newDuel(t, true)
	ap := NewAutopilot(g, s)

	enforcer := s.Players[0].Units[0].Unit
	trebuchet := s.Players[1].Units[0].Unit
	enforcer.Deployed, trebuchet.Deployed = true, true
	enforcer.Position = battlemap.Coord{Col: 10, Row: 8}
	trebuchet.Position = battlemap.Coord{Col: 10, Row: 10}

	decl := ap.declaration(enforcer.Owner, enforcer)
	assert.Equal(t, trebuchet.ID, decl.PrimaryTargetID)
	require.Len(t, decl.Attacks, 2)
	assert.Equal(t, "laser-la", decl.Attacks[0].WeaponID, "location order")

	ap.SetHeatBudget(-100)
	assert.Empty(t, ap.declaration(enforcer.Owner, enforcer).Attacks)

	ap.SetHeatBudget(DefaultHeatBudget)
	enforcer.Position = battlemap.Coord{Col: 0, Row: 0}
	assert.Empty(t, ap.declaration(enforcer.Owner, enforcer).Attacks, "out of range")
}
