// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ironhex/combat/internal/model"
	"github.com/ironhex/combat/pkg/core"
)

// stringsToJSON converts a []string to datatypes.JSON for DB storage.
func stringsToJSON(values []string) datatypes.JSON {
	if len(values) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

// BattleToGorm converts a core.Battle to a GORM model.Battle with its players.
func BattleToGorm(b core.Battle) model.Battle {
	players := make([]model.BattlePlayer, 0, len(b.Players))
	for _, p := range b.Players {
		players = append(players, model.BattlePlayer{
			PlayerID: p.ID.String(),
			Name:     p.Name,
		})
	}
	return model.Battle{
		BattleID:  b.ID.String(),
		Name:      b.Name,
		Seed:      b.Seed,
		StartTime: b.StartTime,
		Players:   players,
	}
}

// EventToGorm converts a core.BattleEvent to a GORM model.BattleEvent.
func EventToGorm(e core.BattleEvent) model.BattleEvent {
	payload := datatypes.JSON(e.Payload)
	if len(payload) == 0 {
		payload = datatypes.JSON("{}")
	}
	return model.BattleEvent{
		Time:    e.Time,
		Seq:     e.Seq,
		Turn:    e.Turn,
		Type:    e.Type,
		Payload: payload,
	}
}

// AttackToGorm flattens a weapon attack resolution.
func AttackToGorm(e core.BattleEvent, d core.AttackResolutionData) model.AttackRecord {
	r := model.AttackRecord{
		Time:          e.Time,
		Seq:           e.Seq,
		Turn:          e.Turn,
		AttackerID:    d.AttackerID.String(),
		TargetID:      d.TargetID.String(),
		WeaponID:      d.WeaponID,
		ToHitNumber:   d.ToHitNumber,
		Roll:          core.Sum(d.AttackRoll),
		IsHit:         d.IsHit,
		Direction:     d.AttackDirection.String(),
		ExternalHeat:  d.ExternalHeat,
		UnitDestroyed: d.UnitDestroyed,
	}
	if d.HitLocationsData != nil {
		r.TotalDamage = d.HitLocationsData.TotalDamage
		r.MissilesHit = d.HitLocationsData.MissilesHit
	}
	return r
}

// FallToGorm flattens a fall check. Damage is the falling damage actually
// dealt to the unit.
func FallToGorm(e core.BattleEvent, d core.FallData) model.FallRecord {
	r := model.FallRecord{
		Time:         e.Time,
		Seq:          e.Seq,
		Turn:         e.Turn,
		UnitID:       d.UnitID.String(),
		Reasons:      stringsToJSON(d.Reasons),
		IsAutomatic:  d.IsAutomatic,
		Fell:         d.Fell,
		PilotInjured: d.PilotInjured,
	}
	if d.HitLocations != nil {
		for _, h := range d.HitLocations.HitLocations {
			r.Damage += h.TotalDamage()
		}
	}
	return r
}

// DestructionToGorm records a destroyed unit.
func DestructionToGorm(e core.BattleEvent, unitID uuid.UUID, cause string) model.DestructionRecord {
	return model.DestructionRecord{
		Time:   e.Time,
		Seq:    e.Seq,
		Turn:   e.Turn,
		UnitID: unitID.String(),
		Cause:  cause,
	}
}
