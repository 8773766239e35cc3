package phase

import (
	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/tohit"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/command"
)

// WeaponsAttack collects weapon attack declarations, one unit at a time,
// alternating between players. Nothing is rolled until resolution.
type WeaponsAttack struct {
	base
	turns *alternation
}

// NewWeaponsAttack creates the declaration phase.
func NewWeaponsAttack(g *game.Game) (*WeaponsAttack, error) {
	b, err := newBase(game.WeaponsAttack, g)
	if err != nil {
		return nil, err
	}
	p := &WeaponsAttack{base: b}
	register(&p.base, command.TypeWeaponAttackDeclaration, p.declare,
		p.fromActivePlayer, p.ownsLiveUnit, p.canDeclare)
	register(&p.base, command.TypeTurnEnded, p.endTurn, p.fromActivePlayer)
	return p, nil
}

func (p *WeaponsAttack) Validate() error {
	return p.requireMap()
}

func (p *WeaponsAttack) Enter() error {
	p.g.Attacks = nil
	p.turns = newAlternation(p.g)
	for _, u := range p.g.Units.Active() {
		if u.IsImmobile() {
			u.Declared = true
		}
	}
	return p.next()
}

func (p *WeaponsAttack) next() error {
	if p.turns.advance(p.g, waitingToDeclare) {
		return nil
	}
	return p.g.Advance()
}

func waitingToDeclare(u *unit.Unit) bool {
	return u.Deployed && !u.Declared
}

func (p *WeaponsAttack) canDeclare(cmd command.Command) bool {
	return waitingToDeclare(p.unit(cmd.(command.UnitCommand).Unit()))
}

// declare records the valid attacks of a declaration. Invalid entries are
// dropped; the rest of the declaration still stands.
func (p *WeaponsAttack) declare(cmd *command.WeaponAttackDeclaration) error {
	u := p.unit(cmd.UnitID)
	primary := cmd.PrimaryTargetID
	if primary == uuid.Nil && len(cmd.Attacks) > 0 {
		primary = cmd.Attacks[0].TargetID
	}

	var accepted []command.WeaponTarget
	for _, wt := range cmd.Attacks {
		w, target, ok := p.validAttack(u, wt)
		if !ok {
			p.g.Logger.Debug("attack dropped", "unit", u.Name, "weapon", wt.WeaponID, "target", wt.TargetID)
			continue
		}
		if wt.AimedLocation != nil && !tohit.CanAim(target, w) {
			wt.AimedLocation = nil
		}
		if w.Weapon.AmmoType != "" && !u.ConsumeAmmo(w.Weapon.AmmoType) {
			p.g.Logger.Debug("attack dropped, out of ammo", "unit", u.Name, "weapon", w.Name)
			continue
		}
		u.RecordWeaponFired(w)
		p.g.Attacks = append(p.g.Attacks, &game.Attack{
			AttackerID:    u.ID,
			WeaponID:      w.ID,
			TargetID:      target.ID,
			AimedLocation: wt.AimedLocation,
			IsPrimary:     target.ID == primary,
		})
		accepted = append(accepted, wt)
	}
	u.Declared = true
	p.g.Publish(&command.WeaponAttacksDeclared{UnitID: u.ID, Attacks: accepted})
	return p.next()
}

func (p *WeaponsAttack) validAttack(u *unit.Unit, wt command.WeaponTarget) (*unit.Component, *unit.Unit, bool) {
	w, part := u.Component(wt.WeaponID)
	if w == nil || w.Weapon == nil || w.Destroyed || part.Destroyed() || u.HasFired(w) {
		return nil, nil, false
	}
	target, ok := p.g.Unit(wt.TargetID)
	if !ok || target == u || target.Owner == u.Owner || target.IsDestroyed() || !target.Deployed {
		return nil, nil, false
	}
	return w, target, true
}

// endTurn declares no attacks for the active player's remaining units.
func (p *WeaponsAttack) endTurn(cmd *command.TurnEnded) error {
	for _, u := range p.g.PlayerUnits(cmd.PlayerID) {
		if waitingToDeclare(u) {
			u.Declared = true
			p.g.Publish(&command.WeaponAttacksDeclared{UnitID: u.ID})
		}
	}
	return p.next()
}
