// Package consciousness rolls whether an injured pilot stays awake or wakes up.
package consciousness

import (
	"github.com/ironhex/combat/internal/dice"
	"github.com/ironhex/combat/internal/rules"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

// Roll checks a conscious pilot after an injury. It returns nil for a dead,
// unhurt or already unconscious pilot. A failed roll knocks the pilot out.
func Roll(p *unit.Pilot, turn int, src dice.Source, r rules.Provider) *core.ConsciousnessRollData {
	if p.Dead() || p.Unconscious || p.Injuries == 0 {
		return nil
	}
	target, ok := r.ConsciousnessTarget(p.Injuries)
	if !ok {
		return nil
	}
	data := &core.ConsciousnessRollData{
		Injuries: p.Injuries,
		Target:   target,
		Roll:     dice.Roll2D6(src),
	}
	data.Success = core.Sum(data.Roll) >= target
	if !data.Success {
		p.Unconscious = true
		p.KnockedOutTurn = turn
	}
	return data
}

// Recover lets an unconscious pilot try to wake up. It returns nil for a
// conscious or dead pilot, or one knocked out during this turn.
func Recover(p *unit.Pilot, turn int, src dice.Source, r rules.Provider) *core.ConsciousnessRollData {
	if !p.Unconscious || p.Dead() || p.KnockedOutTurn >= turn {
		return nil
	}
	target, ok := r.ConsciousnessTarget(p.Injuries)
	if !ok {
		return nil
	}
	data := &core.ConsciousnessRollData{
		Injuries:   p.Injuries,
		Target:     target,
		Roll:       dice.Roll2D6(src),
		IsRecovery: true,
	}
	data.Success = core.Sum(data.Roll) >= target
	if data.Success {
		p.Unconscious = false
	}
	return data
}
