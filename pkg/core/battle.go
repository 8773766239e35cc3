package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PlayerInfo names a player of a recorded battle.
type PlayerInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Battle describes a recorded game.
type Battle struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Seed      int64        `json:"seed"`
	StartTime time.Time    `json:"startTime"`
	Players   []PlayerInfo `json:"players"`
}

// BattleEvent is one published command as it is stored in a battle log.
// Data holds the command value itself so backends can index typed results
// without decoding Payload again.
type BattleEvent struct {
	Seq     int             `json:"seq"`
	Turn    int             `json:"turn"`
	Type    string          `json:"type"`
	Time    time.Time       `json:"time"`
	Payload json.RawMessage `json:"payload"`
	Data    any             `json:"-"`
}
