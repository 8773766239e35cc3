package convert

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/model"
	"github.com/ironhex/combat/pkg/core"
)

// BattleToCore converts a GORM Battle, with its players loaded, to a core.Battle.
func BattleToCore(b model.Battle) (core.Battle, error) {
	id, err := uuid.Parse(b.BattleID)
	if err != nil {
		return core.Battle{}, fmt.Errorf("battle %d: %w", b.ID, err)
	}
	out := core.Battle{
		ID:        id,
		Name:      b.Name,
		Seed:      b.Seed,
		StartTime: b.StartTime,
		Players:   make([]core.PlayerInfo, 0, len(b.Players)),
	}
	for _, p := range b.Players {
		pid, err := uuid.Parse(p.PlayerID)
		if err != nil {
			return core.Battle{}, fmt.Errorf("battle %d player %q: %w", b.ID, p.Name, err)
		}
		out.Players = append(out.Players, core.PlayerInfo{ID: pid, Name: p.Name})
	}
	return out, nil
}

// EventToCore converts a GORM BattleEvent to a core.BattleEvent. Data is left
// empty; callers decode Payload by Type when they need the command.
func EventToCore(e model.BattleEvent) core.BattleEvent {
	return core.BattleEvent{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Type:    e.Type,
		Time:    e.Time,
		Payload: json.RawMessage(e.Payload),
	}
}
