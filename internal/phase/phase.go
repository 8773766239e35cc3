// Package phase implements the phases of a turn. Each phase reacts to the
// commands of its players, mutates the game and publishes the results, then
// asks the game to advance once its completion condition holds.
package phase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/dispatcher"
	"github.com/ironhex/combat/internal/fall"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/resolution"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
)

// ErrMissingMap is returned when a phase that needs the map is entered
// without one.
var ErrMissingMap = errors.New("game has no map")

// base carries what every phase needs.
type base struct {
	name game.PhaseName
	g    *game.Game
	d    *dispatcher.Dispatcher
}

func newBase(name game.PhaseName, g *game.Game) (base, error) {
	d, err := dispatcher.New(string(name), g.Logger)
	if err != nil {
		return base{}, fmt.Errorf("creating %s dispatcher: %w", name, err)
	}
	return base{name: name, g: g, d: d}, nil
}

func (b *base) Name() game.PhaseName { return b.name }

// HandleCommand routes cmd to its handler. Commands the phase does not
// handle, and commands rejected as invalid, are dropped without error.
func (b *base) HandleCommand(cmd command.Command) error {
	err := b.d.Dispatch(cmd)
	if errors.Is(err, dispatcher.ErrIgnored) {
		b.g.Logger.Debug("command ignored", "phase", b.name, "command", cmd.Type(), "reason", err)
		return nil
	}
	return err
}

// register adds a handler for player commands of type T.
func register[T command.Command](b *base, t command.Type, h func(T) error, guards ...dispatcher.GuardFunc) {
	b.d.Register(t, func(cmd command.Command) error {
		c, ok := cmd.(T)
		if !ok {
			return fmt.Errorf("%w: %T is not a %s", dispatcher.ErrIgnored, cmd, t)
		}
		return h(c)
	}, dispatcher.Guarded(guards...), dispatcher.Logged())
}

// ignore rejects the current command.
func ignore(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dispatcher.ErrIgnored, fmt.Sprintf(format, args...))
}

func (b *base) fromActivePlayer(cmd command.Command) bool {
	pc, ok := cmd.(command.PlayerCommand)
	return ok && pc.Player() == b.g.ActivePlayer
}

func (b *base) fromKnownPlayer(cmd command.Command) bool {
	pc, ok := cmd.(command.PlayerCommand)
	return ok && b.g.Player(pc.Player()) != nil
}

// ownsLiveUnit accepts unit commands whose unit exists, belongs to the
// sender and is not destroyed.
func (b *base) ownsLiveUnit(cmd command.Command) bool {
	uc, ok := cmd.(command.UnitCommand)
	if !ok {
		return false
	}
	u, ok := b.g.Unit(uc.Unit())
	return ok && u.Owner == uc.Player() && !u.IsDestroyed()
}

func (b *base) unit(id uuid.UUID) *unit.Unit {
	u, _ := b.g.Unit(id)
	return u
}

func (b *base) resolver() *resolution.Resolver {
	return resolution.New(b.g.Dice, b.g.Rules)
}

func (b *base) falls() *fall.Processor {
	return fall.New(b.g.Dice, b.g.Rules, b.resolver())
}

func (b *base) requireMap() error {
	if b.g.Map == nil {
		return fmt.Errorf("%s: %w", b.name, ErrMissingMap)
	}
	return nil
}
