// internal/storage/storage.go
package storage

import "github.com/ironhex/combat/pkg/core"

// Backend is the interface all battle-log implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Battle management
	StartBattle(battle *core.Battle) error
	EndBattle() error

	// Event recording, in publish order
	Record(e *core.BattleEvent) error
}

// Exportable is an optional interface for backends that write the battle
// log to a file when the battle ends.
type Exportable interface {
	ExportedFilePath() string
}
