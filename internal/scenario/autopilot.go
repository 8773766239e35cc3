package scenario

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// DefaultHeatBudget is the heat a unit may build up above its dissipation
// when the autopilot picks weapons.
const DefaultHeatBudget = 4

// Autopilot plays every player of a game. It is a game sink: it answers
// phase and active player announcements by queueing commands, which the
// game handles on the next Pump.
type Autopilot struct {
	g    *game.Game
	s    *Scenario
	log  *slog.Logger
	heat int
}

// NewAutopilot creates an autopilot for g. s supplies deployment hexes.
func NewAutopilot(g *game.Game, s *Scenario) *Autopilot {
	return &Autopilot{g: g, s: s, log: g.Logger, heat: DefaultHeatBudget}
}

// SetHeatBudget changes how hot the autopilot runs its units.
func (a *Autopilot) SetHeatBudget(n int) {
	a.heat = n
}

// Receive implements game.Sink.
func (a *Autopilot) Receive(cmd command.Command) {
	switch c := cmd.(type) {
	case *command.ChangePhase:
		a.onPhase(game.PhaseName(c.Phase))
	case *command.ChangeActivePlayer:
		a.onActive(c.PlayerID)
	case *command.DiceRolled:
		if !a.g.AutoRollInitiative && a.phase() == game.Initiative {
			a.rollAll()
		}
	}
}

func (a *Autopilot) phase() game.PhaseName {
	if p := a.g.Phase(); p != nil {
		return p.Name()
	}
	return ""
}

func (a *Autopilot) onPhase(name game.PhaseName) {
	switch name {
	case game.Start:
		for _, pl := range a.g.Players {
			a.g.Enqueue(&command.UpdatePlayerStatus{PlayerHeader: from(pl.ID), Ready: true})
		}
	case game.Initiative:
		if !a.g.AutoRollInitiative {
			a.rollAll()
		}
	case game.End:
		if len(a.g.Survivors()) < 2 {
			return
		}
		for _, pl := range a.g.Players {
			if len(a.g.PlayerUnits(pl.ID)) > 0 {
				a.g.Enqueue(&command.TurnEnded{PlayerHeader: from(pl.ID)})
			}
		}
	}
}

// rollAll asks every player to roll. Players that already rolled this round
// are ignored by the phase.
func (a *Autopilot) rollAll() {
	for _, pl := range a.g.Players {
		a.g.Enqueue(&command.RollDice{PlayerHeader: from(pl.ID)})
	}
}

func (a *Autopilot) onActive(player uuid.UUID) {
	switch a.phase() {
	case game.Deployment:
		a.deploy(player)
	case game.Movement:
		if u := first(a.g.PlayerUnits(player), func(u *unit.Unit) bool { return u.Deployed && !u.Movement.Done }); u != nil {
			a.move(player, u)
		}
	case game.WeaponsAttack:
		if u := first(a.g.PlayerUnits(player), func(u *unit.Unit) bool { return u.Deployed && !u.Declared }); u != nil {
			a.g.Enqueue(a.declaration(player, u))
		}
	}
}

func first(units []*unit.Unit, ok func(*unit.Unit) bool) *unit.Unit {
	for _, u := range units {
		if ok(u) {
			return u
		}
	}
	return nil
}

func from(player uuid.UUID) command.PlayerHeader {
	return command.PlayerHeader{PlayerID: player}
}

func (a *Autopilot) deploy(player uuid.UUID) {
	taken := map[battlemap.Coord]bool{}
	for _, u := range a.g.Units.Active() {
		if u.Deployed {
			taken[u.Position] = true
		}
	}
	for _, u := range a.g.PlayerUnits(player) {
		if u.Deployed {
			continue
		}
		at, facing := u.Position, u.Facing
		if pl, ok := a.s.Placement(u.ID); ok {
			at, facing = pl.Position, pl.Facing
		}
		if taken[at] {
			at = a.freeHex(taken)
		}
		taken[at] = true
		a.g.Enqueue(&command.DeployUnit{PlayerHeader: from(player), UnitID: u.ID, Position: at, Facing: facing})
	}
}

func (a *Autopilot) freeHex(taken map[battlemap.Coord]bool) battlemap.Coord {
	for row := 0; row < a.s.Map.Height(); row++ {
		for col := 0; col < a.s.Map.Width(); col++ {
			c := battlemap.Coord{Col: col, Row: row}
			if !taken[c] {
				return c
			}
		}
	}
	return battlemap.Coord{}
}

// nearestEnemy returns the closest deployed enemy unit, nil if none is left.
func (a *Autopilot) nearestEnemy(u *unit.Unit) *unit.Unit {
	var best *unit.Unit
	bestDist := 0
	for _, other := range a.g.Units.Active() {
		if other.Owner == u.Owner || !other.Deployed {
			continue
		}
		d := a.g.Map.Distance(u.Position, other.Position)
		if best == nil || d < bestDist {
			best, bestDist = other, d
		}
	}
	return best
}

// closeTo is the distance the autopilot stops closing in at.
const closeTo = 3

// move walks u toward the nearest enemy. A stand still move is queued after
// every order so a rejected order cannot stall the phase.
func (a *Autopilot) move(player uuid.UUID, u *unit.Unit) {
	stay := &command.MoveUnit{PlayerHeader: from(player), UnitID: u.ID, Mode: core.StandingStill, Facing: u.Facing}
	target := a.nearestEnemy(u)
	if target == nil {
		a.g.Enqueue(stay)
		return
	}
	face := battlemap.Bearing(u.Position, target.Position)

	if u.Prone {
		a.g.Enqueue(
			&command.TryStandup{PlayerHeader: from(player), UnitID: u.ID, Facing: face},
			&command.ChangeFacing{PlayerHeader: from(player), UnitID: u.ID, Facing: face},
			stay,
		)
		return
	}

	occupied := map[battlemap.Coord]bool{}
	for _, other := range a.g.Units.Active() {
		if other != u && other.Deployed {
			occupied[other.Position] = true
		}
	}
	mp := u.EffectiveWalkMP(a.g.Rules.HeatMovementPenalty(u.Heat))
	var path []battlemap.Coord
	at := u.Position
	for len(path) < mp && a.g.Map.Distance(at, target.Position) > closeTo {
		next := battlemap.Neighbor(at, battlemap.Bearing(at, target.Position))
		if _, ok := a.g.Map.Hex(next); !ok || occupied[next] {
			break
		}
		path = append(path, next)
		at = next
	}

	mode := core.StandingStill
	if len(path) > 0 {
		mode = core.Walk
	}
	a.log.Debug("autopilot move", "unit", u.Name, "mode", mode, "hexes", len(path), "target", target.Name)
	a.g.Enqueue(&command.MoveUnit{
		PlayerHeader: from(player),
		UnitID:       u.ID,
		Mode:         mode,
		Path:         path,
		Facing:       battlemap.Bearing(at, target.Position),
		HexesMoved:   len(path),
		MPUsed:       len(path),
	}, stay)
}

// declaration fires every working weapon that reaches the nearest enemy
// while the projected heat stays within the budget.
func (a *Autopilot) declaration(player uuid.UUID, u *unit.Unit) *command.WeaponAttackDeclaration {
	decl := &command.WeaponAttackDeclaration{PlayerHeader: from(player), UnitID: u.ID}
	target := a.nearestEnemy(u)
	if target != nil {
		decl.PrimaryTargetID = target.ID
		dist := a.g.Map.Distance(u.Position, target.Position)
		heat := u.Heat - u.HeatSinkDissipation() - u.EngineDissipation()
		for _, w := range u.Weapons() {
			if w.Destroyed || u.HasFired(w) || dist > w.Weapon.LongRange {
				continue
			}
			if _, part := u.Component(w.ID); part == nil || part.Destroyed() {
				continue
			}
			if heat+w.Weapon.Heat > a.heat {
				continue
			}
			heat += w.Weapon.Heat
			decl.Attacks = append(decl.Attacks, command.WeaponTarget{WeaponID: w.ID, TargetID: target.ID})
		}
	}
	a.log.Debug("autopilot declare", "unit", u.Name, "attacks", len(decl.Attacks))
	return decl
}
