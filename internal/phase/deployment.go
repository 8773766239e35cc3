package phase

import (
	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
)

// Deployment places units on the map, one player at a time in join order.
type Deployment struct {
	base
}

// NewDeployment creates the deployment phase.
func NewDeployment(g *game.Game) (*Deployment, error) {
	b, err := newBase(game.Deployment, g)
	if err != nil {
		return nil, err
	}
	p := &Deployment{base: b}
	register(&p.base, command.TypeDeployUnit, p.deploy, p.fromActivePlayer, p.ownsLiveUnit)
	return p, nil
}

func (p *Deployment) Validate() error {
	return p.requireMap()
}

func (p *Deployment) Enter() error {
	return p.nextPlayer()
}

func (p *Deployment) deploy(cmd *command.DeployUnit) error {
	u := p.unit(cmd.UnitID)
	if u.Deployed {
		return ignore("%s already deployed", u.Name)
	}
	if _, ok := p.g.Map.Hex(cmd.Position); !ok || !cmd.Facing.Valid() {
		return ignore("%s cannot deploy to %s", u.Name, cmd.Position)
	}
	for _, other := range p.g.Units.Active() {
		if other != u && other.Deployed && other.Position == cmd.Position {
			return ignore("%s is occupied", cmd.Position)
		}
	}
	u.Position = cmd.Position
	u.Facing = cmd.Facing
	u.Deployed = true
	p.g.Publish(&command.UnitDeployed{UnitID: u.ID, Position: u.Position, Facing: u.Facing})

	if len(p.undeployed(p.g.ActivePlayer)) > 0 {
		return nil
	}
	return p.nextPlayer()
}

func (p *Deployment) nextPlayer() error {
	for _, pl := range p.g.Players {
		if n := len(p.undeployed(pl.ID)); n > 0 {
			p.g.SetActivePlayer(pl.ID, n)
			return nil
		}
	}
	return p.g.Advance()
}

func (p *Deployment) undeployed(player uuid.UUID) []*unit.Unit {
	var out []*unit.Unit
	for _, u := range p.g.PlayerUnits(player) {
		if !u.Deployed {
			out = append(out, u)
		}
	}
	return out
}
