package v1

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// BattleData contains all the data needed to build an export
type BattleData struct {
	Battle  *core.Battle
	Events  []core.BattleEvent
	EndTime time.Time
}

// Build creates an Export from the battle data
func Build(data *BattleData) Export {
	export := Export{
		FormatVersion: FormatVersion,
		BattleID:      data.Battle.ID.String(),
		Name:          data.Battle.Name,
		Seed:          data.Battle.Seed,
		StartTime:     data.Battle.StartTime.UTC().Format(time.RFC3339),
		EndTime:       data.EndTime.UTC().Format(time.RFC3339),
		Players:       make([]Player, 0, len(data.Battle.Players)),
		Units:         make([]UnitRow, 0),
		Timeline:      make([]Turn, 0),
	}
	for _, p := range data.Battle.Players {
		export.Players = append(export.Players, Player{ID: p.ID.String(), Name: p.Name})
	}

	events := make([]core.BattleEvent, len(data.Events))
	copy(events, data.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })

	units := make(map[uuid.UUID]*UnitRow)
	var order []uuid.UUID
	row := func(id uuid.UUID) *UnitRow {
		r, ok := units[id]
		if !ok {
			r = &UnitRow{UnitID: id.String()}
			units[id] = r
			order = append(order, id)
		}
		return r
	}

	for _, e := range events {
		if n := len(export.Timeline); n == 0 || export.Timeline[n-1].Number != e.Turn {
			export.Timeline = append(export.Timeline, Turn{Number: e.Turn})
		}
		t := &export.Timeline[len(export.Timeline)-1]
		t.Events = append(t.Events, Event{Seq: e.Seq, Type: e.Type, Payload: e.Payload})
		if e.Turn > export.Turns {
			export.Turns = e.Turn
		}

		switch c := decode(e).(type) {
		case *command.WeaponAttackResolution:
			attacker := row(c.Data.AttackerID)
			attacker.Attacks++
			if c.Data.IsHit {
				attacker.Hits++
			}
			if c.Data.HitLocationsData != nil {
				attacker.DamageDealt += c.Data.HitLocationsData.TotalDamage
				row(c.Data.TargetID).DamageTaken += c.Data.HitLocationsData.TotalDamage
			}
		case *command.MechFall:
			if c.Data.Fell {
				row(c.Data.UnitID).Falls++
			}
		case *command.UnitDestroyed:
			r := row(c.UnitID)
			r.Destroyed = true
			r.Cause = c.Cause
		case *command.GameOver:
			if c.WinnerID != uuid.Nil {
				export.WinnerID = c.WinnerID.String()
			}
		}
	}

	for _, id := range order {
		export.Units = append(export.Units, *units[id])
	}
	return export
}

// decode returns the typed command of an event. Events read back from a file
// or a database carry only the payload.
func decode(e core.BattleEvent) any {
	if e.Data != nil {
		return e.Data
	}
	var target command.Command
	switch command.Type(e.Type) {
	case command.TypeWeaponAttackResolution:
		target = &command.WeaponAttackResolution{}
	case command.TypeMechFall:
		target = &command.MechFall{}
	case command.TypeUnitDestroyed:
		target = &command.UnitDestroyed{}
	case command.TypeGameOver:
		target = &command.GameOver{}
	default:
		return nil
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return nil
	}
	return target
}
