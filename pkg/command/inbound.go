package command

import (
	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/pkg/core"
)

const (
	TypeJoinGame                Type = "JoinGame"
	TypeUpdatePlayerStatus      Type = "UpdatePlayerStatus"
	TypeDeployUnit              Type = "DeployUnit"
	TypeRollDice                Type = "RollDice"
	TypeMoveUnit                Type = "MoveUnit"
	TypeTryStandup              Type = "TryStandup"
	TypeChangeFacing            Type = "ChangeFacing"
	TypeWeaponAttackDeclaration Type = "WeaponAttackDeclaration"
	TypeTurnEnded               Type = "TurnEnded"
	TypeShutdownUnit            Type = "ShutdownUnit"
	TypeStartupUnit             Type = "StartupUnit"
)

// JoinGame adds a player to the lobby.
type JoinGame struct {
	PlayerHeader
	Name string `json:"name"`
}

func (*JoinGame) Type() Type { return TypeJoinGame }

// UpdatePlayerStatus marks a player ready or not ready.
type UpdatePlayerStatus struct {
	PlayerHeader
	Ready bool `json:"ready"`
}

func (*UpdatePlayerStatus) Type() Type { return TypeUpdatePlayerStatus }

// DeployUnit places a unit on the map.
type DeployUnit struct {
	PlayerHeader
	UnitID   uuid.UUID        `json:"unitId"`
	Position battlemap.Coord  `json:"position"`
	Facing   battlemap.Facing `json:"facing"`
}

func (*DeployUnit) Type() Type        { return TypeDeployUnit }
func (c *DeployUnit) Unit() uuid.UUID { return c.UnitID }

// RollDice is a player's initiative roll request.
type RollDice struct {
	PlayerHeader
}

func (*RollDice) Type() Type { return TypeRollDice }

// MoveUnit declares and performs a unit's movement for the turn.
type MoveUnit struct {
	PlayerHeader
	UnitID     uuid.UUID         `json:"unitId"`
	Mode       core.MovementMode `json:"mode"`
	Path       []battlemap.Coord `json:"path,omitempty"`
	Facing     battlemap.Facing  `json:"facing"`
	HexesMoved int               `json:"hexesMoved"`
	MPUsed     int               `json:"mpUsed"`
}

func (*MoveUnit) Type() Type        { return TypeMoveUnit }
func (c *MoveUnit) Unit() uuid.UUID { return c.UnitID }

// TryStandup attempts to stand a prone unit up.
type TryStandup struct {
	PlayerHeader
	UnitID uuid.UUID        `json:"unitId"`
	Facing battlemap.Facing `json:"facing"`
}

func (*TryStandup) Type() Type        { return TypeTryStandup }
func (c *TryStandup) Unit() uuid.UUID { return c.UnitID }

// ChangeFacing turns a prone unit in place, spending its movement.
type ChangeFacing struct {
	PlayerHeader
	UnitID uuid.UUID        `json:"unitId"`
	Facing battlemap.Facing `json:"facing"`
}

func (*ChangeFacing) Type() Type        { return TypeChangeFacing }
func (c *ChangeFacing) Unit() uuid.UUID { return c.UnitID }

// WeaponTarget assigns one weapon to a target.
type WeaponTarget struct {
	WeaponID      string         `json:"weaponId"`
	TargetID      uuid.UUID      `json:"targetId"`
	AimedLocation *core.Location `json:"aimedLocation,omitempty"`
}

// WeaponAttackDeclaration declares every attack of one unit for the turn.
type WeaponAttackDeclaration struct {
	PlayerHeader
	UnitID          uuid.UUID      `json:"unitId"`
	Attacks         []WeaponTarget `json:"attacks"`
	PrimaryTargetID uuid.UUID      `json:"primaryTargetId"`
}

func (*WeaponAttackDeclaration) Type() Type        { return TypeWeaponAttackDeclaration }
func (c *WeaponAttackDeclaration) Unit() uuid.UUID { return c.UnitID }

// TurnEnded tells the game a player is done with the phase.
type TurnEnded struct {
	PlayerHeader
}

func (*TurnEnded) Type() Type { return TypeTurnEnded }

// ShutdownUnit powers a unit down voluntarily.
type ShutdownUnit struct {
	PlayerHeader
	UnitID uuid.UUID `json:"unitId"`
}

func (*ShutdownUnit) Type() Type        { return TypeShutdownUnit }
func (c *ShutdownUnit) Unit() uuid.UUID { return c.UnitID }

// StartupUnit attempts to power a unit back up.
type StartupUnit struct {
	PlayerHeader
	UnitID uuid.UUID `json:"unitId"`
}

func (*StartupUnit) Type() Type        { return TypeStartupUnit }
func (c *StartupUnit) Unit() uuid.UUID { return c.UnitID }
