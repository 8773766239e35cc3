package phase

import (
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/pkg/command"
)

// Start is the lobby: players join and mark themselves ready.
type Start struct {
	base
}

// NewStart creates the lobby phase.
func NewStart(g *game.Game) (*Start, error) {
	b, err := newBase(game.Start, g)
	if err != nil {
		return nil, err
	}
	p := &Start{base: b}
	register(&p.base, command.TypeJoinGame, p.join)
	register(&p.base, command.TypeUpdatePlayerStatus, p.status, p.fromKnownPlayer)
	return p, nil
}

func (p *Start) Enter() error {
	if p.ready() {
		return p.g.Advance()
	}
	return nil
}

func (p *Start) join(cmd *command.JoinGame) error {
	if p.g.Player(cmd.PlayerID) != nil {
		return ignore("player %s already joined", cmd.PlayerID)
	}
	p.g.AddPlayer(cmd.PlayerID, cmd.Name)
	p.g.Publish(&command.PlayerJoined{PlayerID: cmd.PlayerID, Name: cmd.Name})
	return nil
}

func (p *Start) status(cmd *command.UpdatePlayerStatus) error {
	p.g.Player(cmd.PlayerID).Ready = cmd.Ready
	if p.ready() {
		return p.g.Advance()
	}
	return nil
}

// ready reports whether at least two players joined and all are ready.
func (p *Start) ready() bool {
	if len(p.g.Players) < 2 {
		return false
	}
	for _, pl := range p.g.Players {
		if !pl.Ready {
			return false
		}
	}
	return true
}
