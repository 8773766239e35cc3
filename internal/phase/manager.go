package phase

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/ironhex/combat/internal/game"
)

const (
	eventAdvance        = "advance"
	eventSkipDeployment = "skipDeployment"
)

// FSMManager selects phases along the turn cycle. Every transition is
// checked against a state machine, so a phase can only hand over to the phase
// that follows it.
type FSMManager struct {
	initial game.PhaseName
	machine *fsm.FSM
}

// NewManager creates a manager whose games begin in the initial phase. Games
// normally begin in game.Start.
func NewManager(initial game.PhaseName) *FSMManager {
	m := &FSMManager{initial: initial}
	m.machine = fsm.NewFSM(
		string(initial),
		fsm.Events{
			{Name: eventAdvance, Src: []string{string(game.Start)}, Dst: string(game.Deployment)},
			{Name: eventSkipDeployment, Src: []string{string(game.Start)}, Dst: string(game.Initiative)},
			{Name: eventAdvance, Src: []string{string(game.Deployment)}, Dst: string(game.Initiative)},
			{Name: eventAdvance, Src: []string{string(game.Initiative)}, Dst: string(game.Movement)},
			{Name: eventAdvance, Src: []string{string(game.Movement)}, Dst: string(game.WeaponsAttack)},
			{Name: eventAdvance, Src: []string{string(game.WeaponsAttack)}, Dst: string(game.WeaponAttackResolution)},
			{Name: eventAdvance, Src: []string{string(game.WeaponAttackResolution)}, Dst: string(game.Heat)},
			{Name: eventAdvance, Src: []string{string(game.Heat)}, Dst: string(game.End)},
			{Name: eventAdvance, Src: []string{string(game.End)}, Dst: string(game.Initiative)},
		},
		fsm.Callbacks{},
	)
	return m
}

// Current returns the phase the state machine is in.
func (m *FSMManager) Current() game.PhaseName {
	return game.PhaseName(m.machine.Current())
}

// Initial builds the first phase.
func (m *FSMManager) Initial(g *game.Game) (game.Phase, error) {
	m.machine.SetState(string(m.initial))
	return Build(m.initial, g)
}

// Next moves the state machine on from current and builds the phase it lands
// in. The lobby skips deployment when every unit is already on the map. A
// phase that cannot be built or fails validation leaves the manager in
// current, so the transition can be retried.
func (m *FSMManager) Next(current game.PhaseName, g *game.Game) (game.Phase, error) {
	if m.Current() != current {
		return nil, fmt.Errorf("phase manager is in %s, game is in %s", m.Current(), current)
	}
	event := eventAdvance
	if current == game.Start && allDeployed(g) {
		event = eventSkipDeployment
	}
	if err := m.machine.Event(context.Background(), event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return nil, fmt.Errorf("leaving %s: %w", current, err)
		}
	}
	p, err := Build(m.Current(), g)
	if err == nil {
		if v, ok := p.(game.Validator); ok {
			err = v.Validate()
		}
	}
	if err != nil {
		m.machine.SetState(string(current))
		return nil, err
	}
	return p, nil
}

// Build creates the phase with the given name for g.
func Build(name game.PhaseName, g *game.Game) (game.Phase, error) {
	switch name {
	case game.Start:
		return NewStart(g)
	case game.Deployment:
		return NewDeployment(g)
	case game.Initiative:
		return NewInitiative(g)
	case game.Movement:
		return NewMovement(g)
	case game.WeaponsAttack:
		return NewWeaponsAttack(g)
	case game.WeaponAttackResolution:
		return NewResolution(g)
	case game.Heat:
		return NewHeat(g)
	case game.End:
		return NewEnd(g)
	}
	return nil, fmt.Errorf("unknown phase %q", name)
}

func allDeployed(g *game.Game) bool {
	for _, u := range g.Units.All() {
		if !u.Deployed {
			return false
		}
	}
	return true
}
