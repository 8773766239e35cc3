// Package command defines the messages a game accepts from players and the
// result messages it publishes. Every message carries the id of the game
// that produced it so a game can drop its own rebroadcast echoes.
package command

import (
	"github.com/google/uuid"
)

// Type names a command.
type Type string

// Command is any inbound or outbound message.
type Command interface {
	Type() Type
	Origin() uuid.UUID
	Sequence() int
	Stamp(origin uuid.UUID, seq int)
}

// Header is embedded by every command.
type Header struct {
	GameOriginID uuid.UUID `json:"gameOriginId"`
	Seq          int       `json:"seq,omitempty"`
}

// Origin returns the id of the game that produced the command.
func (h *Header) Origin() uuid.UUID { return h.GameOriginID }

// Sequence returns the publish order of an outbound command, 0 for inbound.
func (h *Header) Sequence() int { return h.Seq }

// Stamp records the publishing game and sequence number.
func (h *Header) Stamp(origin uuid.UUID, seq int) {
	h.GameOriginID = origin
	h.Seq = seq
}

// PlayerCommand is implemented by inbound commands sent by a player.
type PlayerCommand interface {
	Command
	Player() uuid.UUID
}

// PlayerHeader is embedded by inbound commands.
type PlayerHeader struct {
	Header
	PlayerID uuid.UUID `json:"playerId"`
}

// Player returns the sending player.
func (h *PlayerHeader) Player() uuid.UUID { return h.PlayerID }

// UnitCommand is implemented by inbound commands that act on one unit.
type UnitCommand interface {
	PlayerCommand
	Unit() uuid.UUID
}
