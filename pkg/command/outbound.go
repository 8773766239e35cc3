package command

import (
	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/pkg/core"
)

const (
	TypeChangePhase            Type = "ChangePhase"
	TypeChangeActivePlayer     Type = "ChangeActivePlayer"
	TypeDiceRolled             Type = "DiceRolled"
	TypeHeatUpdated            Type = "HeatUpdated"
	TypeUnitStartup            Type = "UnitStartup"
	TypeUnitShutdown           Type = "UnitShutdown"
	TypeUnitMoved              Type = "UnitMoved"
	TypeWeaponAttackResolution Type = "WeaponAttackResolution"
	TypeCriticalHitsResolution Type = "CriticalHitsResolution"
	TypeMechFall               Type = "MechFall"
	TypePilotConsciousnessRoll Type = "PilotConsciousnessRoll"
	TypeAmmoExplosion          Type = "AmmoExplosion"
	TypeTurnIncremented        Type = "TurnIncremented"
	TypeUnitDestroyed          Type = "UnitDestroyed"
	TypeWeaponAttacksDeclared  Type = "WeaponAttacksDeclared"
	TypePlayerJoined           Type = "PlayerJoined"
	TypeUnitDeployed           Type = "UnitDeployed"
	TypeGameOver               Type = "GameOver"
)

// ChangePhase announces the phase the game entered.
type ChangePhase struct {
	Header
	Phase string `json:"phase"`
	Turn  int    `json:"turn"`
}

func (*ChangePhase) Type() Type { return TypeChangePhase }

// ChangeActivePlayer announces whose input the phase waits for.
type ChangeActivePlayer struct {
	Header
	PlayerID uuid.UUID `json:"playerId"`
	// UnitsToAct is how many units the player moves or declares for now.
	UnitsToAct int `json:"unitsToAct"`
}

func (*ChangeActivePlayer) Type() Type { return TypeChangeActivePlayer }

// PlayerJoined echoes a lobby join.
type PlayerJoined struct {
	Header
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name"`
}

func (*PlayerJoined) Type() Type { return TypePlayerJoined }

// UnitDeployed echoes a deployment.
type UnitDeployed struct {
	Header
	UnitID   uuid.UUID        `json:"unitId"`
	Position battlemap.Coord  `json:"position"`
	Facing   battlemap.Facing `json:"facing"`
}

func (*UnitDeployed) Type() Type { return TypeUnitDeployed }

// DiceRolled is an initiative roll.
type DiceRolled struct {
	Header
	PlayerID uuid.UUID `json:"playerId"`
	Roll     []int     `json:"roll"`
}

func (*DiceRolled) Type() Type { return TypeDiceRolled }

// HeatUpdated is a unit's heat phase result.
type HeatUpdated struct {
	Header
	UnitID uuid.UUID     `json:"unitId"`
	Data   core.HeatData `json:"data"`
	Heat   int           `json:"heat"`
}

func (*HeatUpdated) Type() Type { return TypeHeatUpdated }

// UnitStartup is a restart attempt. IsAutomaticRestart marks attempts made
// by the heat phase rather than requested by the player.
type UnitStartup struct {
	Header
	UnitID             uuid.UUID        `json:"unitId"`
	IsAutomaticRestart bool             `json:"isAutomaticRestart"`
	Data               core.StartupData `json:"data"`
}

func (*UnitStartup) Type() Type { return TypeUnitStartup }

// UnitShutdown is a voluntary shutdown or a heat shutdown check. Data is nil
// when the unit passed the check and kept running.
type UnitShutdown struct {
	Header
	UnitID uuid.UUID               `json:"unitId"`
	Data   *core.ShutdownData      `json:"data,omitempty"`
	Check  *core.ShutdownCheckData `json:"check,omitempty"`
}

func (*UnitShutdown) Type() Type { return TypeUnitShutdown }

// UnitMoved is a completed movement, a stand-up attempt or a facing change.
type UnitMoved struct {
	Header
	UnitID   uuid.UUID         `json:"unitId"`
	Mode     core.MovementMode `json:"mode"`
	Position battlemap.Coord   `json:"position"`
	Facing   battlemap.Facing  `json:"facing"`
	Prone    bool              `json:"prone"`
	Psr      *core.PsrData     `json:"psr,omitempty"`
}

func (*UnitMoved) Type() Type { return TypeUnitMoved }

// WeaponAttacksDeclared echoes a unit's declaration.
type WeaponAttacksDeclared struct {
	Header
	UnitID  uuid.UUID      `json:"unitId"`
	Attacks []WeaponTarget `json:"attacks"`
}

func (*WeaponAttacksDeclared) Type() Type { return TypeWeaponAttacksDeclared }

// WeaponAttackResolution is one resolved weapon attack, hit or miss.
type WeaponAttackResolution struct {
	Header
	Data core.AttackResolutionData `json:"data"`
}

func (*WeaponAttackResolution) Type() Type { return TypeWeaponAttackResolution }

// CriticalHitsResolution lists the critical hit checks of one impact.
type CriticalHitsResolution struct {
	Header
	Data core.CriticalHitsData `json:"data"`
}

func (*CriticalHitsResolution) Type() Type { return TypeCriticalHitsResolution }

// MechFall is a fall check and its outcome.
type MechFall struct {
	Header
	Data core.FallData `json:"data"`
}

func (*MechFall) Type() Type { return TypeMechFall }

// PilotConsciousnessRoll is a consciousness or recovery roll.
type PilotConsciousnessRoll struct {
	Header
	UnitID uuid.UUID                  `json:"unitId"`
	Data   core.ConsciousnessRollData `json:"data"`
}

func (*PilotConsciousnessRoll) Type() Type { return TypePilotConsciousnessRoll }

// AmmoExplosion is a heat induced ammunition check and, when the bin went
// off, the damage it did.
type AmmoExplosion struct {
	Header
	UnitID         uuid.UUID                       `json:"unitId"`
	Data           core.AmmoExplosionCheckData     `json:"data"`
	Damage         []core.LocationDamageData       `json:"damage,omitempty"`
	Criticals      []core.LocationCriticalHitsData `json:"criticals,omitempty"`
	DestroyedParts []core.Location                 `json:"destroyedParts,omitempty"`
	UnitDestroyed  bool                            `json:"unitDestroyed"`
}

func (*AmmoExplosion) Type() Type { return TypeAmmoExplosion }

// UnitDestroyed announces a unit leaving the battle.
type UnitDestroyed struct {
	Header
	UnitID uuid.UUID `json:"unitId"`
	Cause  string    `json:"cause"`
}

func (*UnitDestroyed) Type() Type { return TypeUnitDestroyed }

// TurnIncremented starts a new turn.
type TurnIncremented struct {
	Header
	Turn int `json:"turn"`
}

func (*TurnIncremented) Type() Type { return TypeTurnIncremented }

// GameOver ends the battle. WinnerID is uuid.Nil when no player has a unit
// left.
type GameOver struct {
	Header
	WinnerID uuid.UUID `json:"winnerId"`
	Turn     int       `json:"turn"`
}

func (*GameOver) Type() Type { return TypeGameOver }
