package phase

import (
	"slices"

	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// Initiative orders the players for the turn. Every player rolls 2d6; tied
// players, and only they, roll again until the order is strict.
type Initiative struct {
	base
	// rolls holds each player's totals, one per round they took part in.
	rolls   map[uuid.UUID][]int
	pending []uuid.UUID
	round   int
}

// NewInitiative creates the initiative phase.
func NewInitiative(g *game.Game) (*Initiative, error) {
	b, err := newBase(game.Initiative, g)
	if err != nil {
		return nil, err
	}
	p := &Initiative{base: b, rolls: make(map[uuid.UUID][]int)}
	register(&p.base, command.TypeRollDice, p.roll, p.fromKnownPlayer)
	return p, nil
}

func (p *Initiative) Enter() error {
	p.g.InitiativeOrder = nil
	p.pending = p.pending[:0]
	for _, pl := range p.g.Players {
		p.pending = append(p.pending, pl.ID)
	}
	p.round = 1
	if p.g.AutoRollInitiative {
		return p.autoRoll()
	}
	return nil
}

func (p *Initiative) roll(cmd *command.RollDice) error {
	if !p.waitingOn(cmd.PlayerID) {
		return ignore("player %s already rolled", cmd.PlayerID)
	}
	p.rollFor(cmd.PlayerID)
	done, err := p.settle()
	if err != nil || done || !p.g.AutoRollInitiative {
		return err
	}
	return p.autoRoll()
}

func (p *Initiative) autoRoll() error {
	for {
		for _, id := range slices.Clone(p.pending) {
			if p.waitingOn(id) {
				p.rollFor(id)
			}
		}
		done, err := p.settle()
		if err != nil || done {
			return err
		}
	}
}

func (p *Initiative) waitingOn(id uuid.UUID) bool {
	return slices.Contains(p.pending, id) && len(p.rolls[id]) < p.round
}

func (p *Initiative) rollFor(id uuid.UUID) {
	roll := dice.Roll2D6(p.g.Dice)
	p.rolls[id] = append(p.rolls[id], core.Sum(roll))
	p.g.Publish(&command.DiceRolled{PlayerID: id, Roll: roll})
}

// settle checks a completed round. Players still tied go to the next round;
// once nobody is tied the order is recorded and the phase advances.
func (p *Initiative) settle() (bool, error) {
	for _, id := range p.pending {
		if len(p.rolls[id]) < p.round {
			return false, nil
		}
	}

	var tied []uuid.UUID
	for _, id := range p.pending {
		for _, other := range p.pending {
			if id != other && slices.Equal(p.rolls[id], p.rolls[other]) {
				tied = append(tied, id)
				break
			}
		}
	}
	if len(tied) > 0 {
		p.pending = tied
		p.round++
		return false, nil
	}

	order := make([]uuid.UUID, 0, len(p.rolls))
	for _, pl := range p.g.Players {
		order = append(order, pl.ID)
	}
	slices.SortStableFunc(order, func(a, b uuid.UUID) int {
		return slices.Compare(p.rolls[b], p.rolls[a])
	})
	p.g.InitiativeOrder = order
	p.g.Logger.Info("initiative decided", "turn", p.g.Turn, "order", order)
	return true, p.g.Advance()
}
