package phase

import (
	"github.com/ironhex/combat/internal/dispatcher"
	"github.com/ironhex/combat/internal/fall"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/piloting"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// standUpMP is the movement a stand-up attempt costs.
const standUpMP = 2

// Movement moves units one at a time, alternating between players.
type Movement struct {
	base
	turns *alternation
}

// NewMovement creates the movement phase.
func NewMovement(g *game.Game) (*Movement, error) {
	b, err := newBase(game.Movement, g)
	if err != nil {
		return nil, err
	}
	p := &Movement{base: b}
	guards := []dispatcher.GuardFunc{p.fromActivePlayer, p.ownsLiveUnit, p.canMove}
	register(&p.base, command.TypeMoveUnit, p.move, guards...)
	register(&p.base, command.TypeTryStandup, p.standUp, guards...)
	register(&p.base, command.TypeChangeFacing, p.changeFacing, guards...)
	return p, nil
}

func (p *Movement) Validate() error {
	return p.requireMap()
}

func (p *Movement) Enter() error {
	p.turns = newAlternation(p.g)
	for _, u := range p.g.Units.Active() {
		if u.IsImmobile() {
			u.Movement = unit.Movement{Mode: core.StandingStill, Done: true}
		}
	}
	return p.next()
}

func (p *Movement) next() error {
	if p.turns.advance(p.g, waitingToMove) {
		return nil
	}
	return p.g.Advance()
}

func waitingToMove(u *unit.Unit) bool {
	return u.Deployed && !u.Movement.Done
}

func (p *Movement) canMove(cmd command.Command) bool {
	u := p.unit(cmd.(command.UnitCommand).Unit())
	return waitingToMove(u)
}

func (p *Movement) move(cmd *command.MoveUnit) error {
	u := p.unit(cmd.UnitID)
	if u.Prone && cmd.Mode != core.StandingStill {
		return ignore("%s is prone", u.Name)
	}
	if !cmd.Facing.Valid() {
		return ignore("invalid facing %d", cmd.Facing)
	}
	if cmd.MPUsed < 0 || cmd.MPUsed > p.allowance(u, cmd.Mode) || cmd.HexesMoved > cmd.MPUsed {
		return ignore("%s cannot spend %d MP %s", u.Name, cmd.MPUsed, cmd.Mode)
	}
	dest := u.Position
	for _, c := range cmd.Path {
		if _, ok := p.g.Map.Hex(c); !ok {
			return ignore("path leaves the map at %s", c)
		}
		dest = c
	}
	for _, other := range p.g.Units.Active() {
		if other != u && other.Position == dest {
			return ignore("%s is occupied", dest)
		}
	}

	u.Position = dest
	u.Facing = cmd.Facing
	u.Movement = unit.Movement{Mode: cmd.Mode, HexesMoved: cmd.HexesMoved, MPUsed: cmd.MPUsed, Done: true}

	var psr *core.PsrData
	if piloting.Damaged(u) {
		switch cmd.Mode {
		case core.Run:
			psr = piloting.Roll(u, piloting.Running, p.g.Dice, p.g.Rules)
		case core.Jump:
			psr = piloting.Roll(u, piloting.Jumping, p.g.Dice, p.g.Rules)
		}
	}
	p.publishMoved(u, psr)
	if psr != nil && !psr.Success {
		p.fallOn(u, psr)
	}
	return p.next()
}

func (p *Movement) allowance(u *unit.Unit, mode core.MovementMode) int {
	penalty := p.g.Rules.HeatMovementPenalty(u.Heat)
	switch mode {
	case core.Walk:
		return u.EffectiveWalkMP(penalty)
	case core.Run:
		return u.EffectiveRunMP(penalty)
	case core.Jump:
		return u.EffectiveJumpMP()
	}
	return 0
}

func (p *Movement) standUp(cmd *command.TryStandup) error {
	u := p.unit(cmd.UnitID)
	if !u.Prone || !cmd.Facing.Valid() {
		return ignore("%s cannot stand up", u.Name)
	}
	if piloting.TargetNumber(u, piloting.StandUp, p.g.Rules).Impossible {
		return ignore("%s cannot stand up", u.Name)
	}
	psr := piloting.Roll(u, piloting.StandUp, p.g.Dice, p.g.Rules)
	u.Movement = unit.Movement{Mode: core.Walk, MPUsed: standUpMP, Done: true}
	if psr.Success {
		u.Prone = false
		u.Facing = cmd.Facing
		p.publishMoved(u, psr)
		return p.next()
	}

	p.publishMoved(u, psr)
	// the unit rises far enough to fall again
	u.Prone = false
	p.fallOn(u, psr)
	return p.next()
}

func (p *Movement) changeFacing(cmd *command.ChangeFacing) error {
	u := p.unit(cmd.UnitID)
	if !u.Prone || !cmd.Facing.Valid() {
		return ignore("%s cannot turn in place", u.Name)
	}
	u.Facing = cmd.Facing
	u.Movement = unit.Movement{Mode: core.StandingStill, Done: true}
	p.publishMoved(u, nil)
	return p.next()
}

func (p *Movement) publishMoved(u *unit.Unit, psr *core.PsrData) {
	p.g.Publish(&command.UnitMoved{
		UnitID:   u.ID,
		Mode:     u.Movement.Mode,
		Position: u.Position,
		Facing:   u.Facing,
		Prone:    u.Prone,
		Psr:      psr,
	})
}

func (p *Movement) fallOn(u *unit.Unit, psr *core.PsrData) {
	a := &aftermath{b: &p.base, u: u}
	a.finish(a.fall(fall.Input{Unit: u, FailedPsr: psr}))
}
