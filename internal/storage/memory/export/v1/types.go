// Package v1 contains the v1 export format of a recorded battle.
package v1

import "encoding/json"

// FormatVersion is written into every v1 export.
const FormatVersion = 1

// Export is the root JSON structure for v1 format
type Export struct {
	FormatVersion int       `json:"formatVersion"`
	BattleID      string    `json:"battleId"`
	Name          string    `json:"name"`
	Seed          int64     `json:"seed"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Turns         int       `json:"turns"`
	WinnerID      string    `json:"winnerId,omitempty"`
	Players       []Player  `json:"players"`
	Units         []UnitRow `json:"units"`
	Timeline      []Turn    `json:"timeline"`
}

// Player is a participant of the battle.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnitRow summarizes what one unit did and suffered.
type UnitRow struct {
	UnitID      string `json:"unitId"`
	Attacks     int    `json:"attacks"`
	Hits        int    `json:"hits"`
	DamageDealt int    `json:"damageDealt"`
	DamageTaken int    `json:"damageTaken"`
	Falls       int    `json:"falls"`
	Destroyed   bool   `json:"destroyed"`
	Cause       string `json:"cause,omitempty"`
}

// Turn holds the events published during one turn, in publish order.
type Turn struct {
	Number int     `json:"number"`
	Events []Event `json:"events"`
}

// Event is one published command.
type Event struct {
	Seq     int             `json:"seq"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
