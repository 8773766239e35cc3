package phase

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

const stopped game.PhaseName = "Stopped"

// idle is a phase that does nothing, used to halt a game under test.
type idle struct{}

func (idle) Name() game.PhaseName                { return stopped }
func (idle) Enter() error                        { return nil }
func (idle) HandleCommand(command.Command) error { return nil }

// stopAfter runs the real turn cycle and halts once the last phase is left.
type stopAfter struct {
	*FSMManager
	last game.PhaseName
}

func (m stopAfter) Next(current game.PhaseName, g *game.Game) (game.Phase, error) {
	if current == m.last {
		return idle{}, nil
	}
	return m.FSMManager.Next(current, g)
}

type fixture struct {
	t    *testing.T
	g    *game.Game
	dice *dice.Scripted
	p1   uuid.UUID
	p2   uuid.UUID
}

// newFixture creates a two player game on an empty 12x12 map that begins in
// first and halts after last. Player one holds the initiative.
func newFixture(t *testing.T, first, last game.PhaseName) *fixture {
	t.Helper()
	f := &fixture{t: t, dice: dice.NewScripted(), p1: uuid.New(), p2: uuid.New()}
	f.g = game.New(game.Options{
		Map:     battlemap.New(12, 12),
		Dice:    f.dice,
		Manager: stopAfter{FSMManager: NewManager(first), last: last},
	})
	f.g.AddPlayer(f.p1, "one")
	f.g.AddPlayer(f.p2, "two")
	f.g.InitiativeOrder = []uuid.UUID{f.p1, f.p2}
	return f
}

// mech adds a deployed 50 ton unit. Locations missing from armor get full
// armor.
func (f *fixture) mech(owner uuid.UUID, name string, at battlemap.Coord, facing battlemap.Facing, armor map[core.Location]int) *unit.Unit {
	f.t.Helper()
	u, err := unit.NewBiped(name, 50, 5, 3, unit.NewPilot(name, 4, 5), armor)
	require.NoError(f.t, err)
	u.Position = at
	u.Facing = facing
	u.Deployed = true
	require.NoError(f.t, f.g.AddUnit(owner, u))
	return u
}

func (f *fixture) mount(u *unit.Unit, loc core.Location, c *unit.Component, slots ...int) *unit.Component {
	f.t.Helper()
	require.NoError(f.t, u.Part(loc).Mount(c, slots...))
	return c
}

func (f *fixture) start() {
	f.t.Helper()
	require.NoError(f.t, f.g.Start())
}

func (f *fixture) send(cmd command.Command) {
	f.t.Helper()
	require.NoError(f.t, f.g.HandleCommand(cmd))
}

func (f *fixture) phase() game.PhaseName {
	return f.g.Phase().Name()
}

// published returns the outbox entries of type T, in order.
func published[T command.Command](g *game.Game) []T {
	var out []T
	for _, cmd := range g.Outbox() {
		if c, ok := cmd.(T); ok {
			out = append(out, c)
		}
	}
	return out
}

// types lists the types of the outbox entries, skipping phase and active
// player changes.
func types(g *game.Game) []command.Type {
	var out []command.Type
	for _, cmd := range g.Outbox() {
		switch cmd.Type() {
		case command.TypeChangePhase, command.TypeChangeActivePlayer:
			continue
		}
		out = append(out, cmd.Type())
	}
	return out
}

func mediumLaser() *unit.Component {
	return unit.NewWeapon("Medium Laser", unit.WeaponStats{
		Kind: unit.Energy, Damage: 5, Heat: 3, ShortRange: 3, MediumRange: 6, LongRange: 9,
	})
}

func lrm10() *unit.Component {
	return unit.NewWeapon("LRM 10", unit.WeaponStats{
		Kind: unit.Missile, Damage: 1, Heat: 4, MinRange: 6, ShortRange: 7, MediumRange: 14, LongRange: 21,
		RackSize: 10, ClusterSize: 5, AmmoType: "LRM10",
	})
}

func TestManager_Cycle(t *testing.T) {
	g := game.New(game.Options{Map: battlemap.New(4, 4)})
	m := NewManager(game.Deployment)
	_, err := m.Initial(g)
	require.NoError(t, err)

	want := []game.PhaseName{
		game.Initiative, game.Movement, game.WeaponsAttack,
		game.WeaponAttackResolution, game.Heat, game.End, game.Initiative,
	}
	current := game.Deployment
	for _, name := range want {
		p, err := m.Next(current, g)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
		current = name
	}
}

func TestManager_SkipsDeploymentWhenEveryoneIsPlaced(t *testing.T) {
	g := game.New(game.Options{})
	m := NewManager(game.Start)
	_, err := m.Initial(g)
	require.NoError(t, err)

	p, err := m.Next(game.Start, g)
	require.NoError(t, err)
	assert.Equal(t, game.Initiative, p.Name())
}

func TestManager_RejectsOutOfOrderTransition(t *testing.T) {
	g := game.New(game.Options{})
	m := NewManager(game.Movement)
	_, err := m.Initial(g)
	require.NoError(t, err)

	_, err = m.Next(game.Heat, g)
	assert.Error(t, err)
	assert.Equal(t, game.Movement, m.Current())
}

func TestManager_FailedValidationCanBeRetried(t *testing.T) {
	g := game.New(game.Options{})
	m := NewManager(game.Initiative)
	_, err := m.Initial(g)
	require.NoError(t, err)

	_, err = m.Next(game.Initiative, g)
	require.ErrorIs(t, err, ErrMissingMap)
	assert.Equal(t, game.Initiative, m.Current())

	g.Map = battlemap.New(4, 4)
	p, err := m.Next(game.Initiative, g)
	require.NoError(t, err)
	assert.Equal(t, game.Movement, p.Name())
	assert.Equal(t, game.Movement, m.Current())
}

func TestUnhandledCommandsAreIgnored(t *testing.T) {
	f := newFixture(t, game.End, game.End)
	f.mech(f.p1, "A", battlemap.Coord{Col: 1, Row: 1}, battlemap.North, nil)
	f.mech(f.p2, "B", battlemap.Coord{Col: 1, Row: 5}, battlemap.North, nil)
	f.start()

	f.send(&command.RollDice{PlayerHeader: command.PlayerHeader{PlayerID: f.p1}})
	f.send(&command.TurnEnded{PlayerHeader: command.PlayerHeader{PlayerID: uuid.New()}})

	assert.Equal(t, game.End, f.phase())
	assert.Equal(t, 0, f.dice.Calls())
}
