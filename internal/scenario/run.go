package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironhex/combat/internal/game"
)

var (
	// ErrStalled is returned when the game waits for input nobody sends.
	ErrStalled = errors.New("battle stalled")
	// ErrTurnLimit is returned when the battle is still undecided after the
	// last allowed turn.
	ErrTurnLimit = errors.New("turn limit reached")
)

// Run starts g and feeds it queued commands until the battle is over. A
// maxTurns of zero or less means no limit.
func Run(ctx context.Context, g *game.Game, maxTurns int) error {
	if err := g.Start(); err != nil {
		return fmt.Errorf("start battle: %w", err)
	}
	for !g.Over {
		if err := ctx.Err(); err != nil {
			return err
		}
		if maxTurns > 0 && g.Turn > maxTurns {
			return fmt.Errorf("%w: %d", ErrTurnLimit, maxTurns)
		}
		ok, err := g.Step()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w in %s on turn %d", ErrStalled, g.Phase().Name(), g.Turn)
		}
	}
	return nil
}
