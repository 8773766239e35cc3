package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Battle{},
	&BattlePlayer{},
	&BattleEvent{},
	&AttackRecord{},
	&FallRecord{},
	&DestructionRecord{},
}

// Battle is one recorded game.
type Battle struct {
	gorm.Model
	BattleID  string       `json:"battleId" gorm:"size:36;uniqueIndex:idx_battle_battle_id"`
	Name      string       `json:"name" gorm:"size:200"`
	Seed      int64        `json:"seed"`
	StartTime time.Time    `json:"startTime" gorm:"index:idx_battle_start"`
	EndTime   sql.NullTime `json:"endTime"`
	Turns     int          `json:"turns"`
	WinnerID  string       `json:"winnerId" gorm:"size:36"`

	Players []BattlePlayer
	Events  []BattleEvent
}

func (*Battle) TableName() string {
	return "battles"
}

// BattlePlayer is a player who joined a recorded battle.
type BattlePlayer struct {
	ID       uint   `json:"id" gorm:"primarykey;autoIncrement;"`
	BattleID uint   `json:"battleId" gorm:"index:idx_battleplayer_battle_id"`
	Battle   Battle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:BattleID;"`
	PlayerID string `json:"playerId" gorm:"size:36"`
	Name     string `json:"name" gorm:"size:100"`
}

func (*BattlePlayer) TableName() string {
	return "battle_players"
}

// BattleEvent is one published command in order of publication.
type BattleEvent struct {
	ID       uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time     time.Time `json:"time"`
	BattleID uint      `json:"battleId" gorm:"index:idx_battleevent_battle_id"`
	Battle   Battle    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:BattleID;"`

	Seq     int            `json:"seq" gorm:"index:idx_battleevent_seq"`
	Turn    int            `json:"turn" gorm:"index:idx_battleevent_turn"`
	Type    string         `json:"type" gorm:"size:40;index:idx_battleevent_type"`
	Payload datatypes.JSON `json:"payload"`
}

func (*BattleEvent) TableName() string {
	return "battle_events"
}

// AttackRecord is a flattened weapon attack resolution for querying hit rates
// and damage per weapon.
type AttackRecord struct {
	ID       uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time     time.Time `json:"time"`
	BattleID uint      `json:"battleId" gorm:"index:idx_attack_battle_id"`
	Battle   Battle    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:BattleID;"`
	Seq      int       `json:"seq"`
	Turn     int       `json:"turn" gorm:"index:idx_attack_turn"`

	AttackerID    string `json:"attackerId" gorm:"size:36;index:idx_attack_attacker"`
	TargetID      string `json:"targetId" gorm:"size:36;index:idx_attack_target"`
	WeaponID      string `json:"weaponId" gorm:"size:40"`
	ToHitNumber   int    `json:"toHitNumber"`
	Roll          int    `json:"roll"`
	IsHit         bool   `json:"isHit"`
	Direction     string `json:"direction" gorm:"size:8"`
	TotalDamage   int    `json:"totalDamage"`
	MissilesHit   int    `json:"missilesHit"`
	ExternalHeat  int    `json:"externalHeat"`
	UnitDestroyed bool   `json:"unitDestroyed"`
}

func (*AttackRecord) TableName() string {
	return "attack_records"
}

// FallRecord is a flattened fall check.
type FallRecord struct {
	ID       uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time     time.Time `json:"time"`
	BattleID uint      `json:"battleId" gorm:"index:idx_fall_battle_id"`
	Battle   Battle    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:BattleID;"`
	Seq      int       `json:"seq"`
	Turn     int       `json:"turn"`

	UnitID       string         `json:"unitId" gorm:"size:36;index:idx_fall_unit"`
	Reasons      datatypes.JSON `json:"reasons"`
	IsAutomatic  bool           `json:"isAutomatic"`
	Fell         bool           `json:"fell"`
	Damage       int            `json:"damage"`
	PilotInjured bool           `json:"pilotInjured"`
}

func (*FallRecord) TableName() string {
	return "fall_records"
}

// DestructionRecord marks a unit leaving the battle.
type DestructionRecord struct {
	ID       uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time     time.Time `json:"time"`
	BattleID uint      `json:"battleId" gorm:"index:idx_destruction_battle_id"`
	Battle   Battle    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:BattleID;"`
	Seq      int       `json:"seq"`
	Turn     int       `json:"turn"`

	UnitID string `json:"unitId" gorm:"size:36"`
	Cause  string `json:"cause" gorm:"size:80"`
}

func (*DestructionRecord) TableName() string {
	return "destruction_records"
}
