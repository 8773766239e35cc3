package phase

import (
	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/fall"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/heat"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// End waits for every player to end the turn. Players may shut their units
// down or start them up before they do.
type End struct {
	base
}

// NewEnd creates the end phase.
func NewEnd(g *game.Game) (*End, error) {
	b, err := newBase(game.End, g)
	if err != nil {
		return nil, err
	}
	p := &End{base: b}
	register(&p.base, command.TypeTurnEnded, p.endTurn, p.running, p.fromKnownPlayer)
	register(&p.base, command.TypeShutdownUnit, p.shutdown, p.running, p.fromKnownPlayer, p.ownsLiveUnit)
	register(&p.base, command.TypeStartupUnit, p.startup, p.running, p.fromKnownPlayer, p.ownsLiveUnit)
	return p, nil
}

func (p *End) Enter() error {
	if survivors := p.g.Survivors(); len(survivors) < 2 {
		p.gameOver(survivors)
		return nil
	}
	p.g.ResetPlayers()
	for _, pl := range p.g.Players {
		if len(p.g.PlayerUnits(pl.ID)) == 0 {
			pl.TurnEnded = true
		}
	}
	return p.finishIfDone()
}

func (p *End) gameOver(survivors []uuid.UUID) {
	winner := uuid.Nil
	if len(survivors) == 1 {
		winner = survivors[0]
	}
	p.g.Over = true
	p.g.Logger.Info("game over", "turn", p.g.Turn, "winner", winner)
	p.g.Publish(&command.GameOver{WinnerID: winner, Turn: p.g.Turn})
}

// running rejects input once the battle is decided.
func (p *End) running(command.Command) bool {
	return !p.g.Over
}

func (p *End) endTurn(cmd *command.TurnEnded) error {
	pl := p.g.Player(cmd.PlayerID)
	if pl.TurnEnded {
		return ignore("player %s already ended the turn", pl.ID)
	}
	pl.TurnEnded = true
	return p.finishIfDone()
}

func (p *End) shutdown(cmd *command.ShutdownUnit) error {
	u := p.unit(cmd.UnitID)
	if u.IsShutdown() {
		return ignore("%s is already shut down", u.Name)
	}
	u.Shutdown = &core.ShutdownData{Reason: core.ShutdownVoluntary, Turn: p.g.Turn}
	p.g.Publish(&command.UnitShutdown{UnitID: u.ID, Data: u.Shutdown})
	a := &aftermath{b: &p.base, u: u}
	a.finish(a.fall(fall.Input{Unit: u, Shutdown: true}))
	return nil
}

func (p *End) startup(cmd *command.StartupUnit) error {
	u := p.unit(cmd.UnitID)
	data := heat.Startup(u, p.g.Turn)
	if data == nil {
		return ignore("%s cannot start up", u.Name)
	}
	p.g.Publish(&command.UnitStartup{UnitID: u.ID, Data: *data})
	return nil
}

// finishIfDone starts the next turn once every player ended this one.
func (p *End) finishIfDone() error {
	if len(p.g.Players) == 0 {
		return nil
	}
	for _, pl := range p.g.Players {
		if !pl.TurnEnded {
			return nil
		}
	}
	p.g.Turn++
	for _, u := range p.g.Units.All() {
		u.ResetTurn()
	}
	p.g.Attacks = nil
	p.g.Publish(&command.TurnIncremented{Turn: p.g.Turn})
	return p.g.Advance()
}
