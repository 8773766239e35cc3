// internal/storage/memory/memory.go
package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/ironhex/combat/internal/config"
	"github.com/ironhex/combat/pkg/core"
)

// ErrNoBattle is returned when events arrive outside StartBattle/EndBattle.
var ErrNoBattle = errors.New("no battle started")

// Backend stores the battle log in memory and exports it to JSON
type Backend struct {
	cfg            config.MemoryConfig
	battle         *core.Battle
	events         []core.BattleEvent
	lastExportPath string
	now            func() time.Time
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg: cfg,
		now: time.Now,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartBattle begins recording a new battle
func (b *Backend) StartBattle(battle *core.Battle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.battle = battle
	b.events = nil
	return nil
}

// EndBattle finalizes and exports the battle log
func (b *Backend) EndBattle() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.battle == nil {
		return ErrNoBattle
	}
	return b.exportJSON()
}

// Record appends an event
func (b *Backend) Record(e *core.BattleEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.battle == nil {
		return ErrNoBattle
	}
	b.events = append(b.events, *e)
	return nil
}

// Events returns a copy of the recorded events
func (b *Backend) Events() []core.BattleEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.BattleEvent, len(b.events))
	copy(out, b.events)
	return out
}

// ExportedFilePath returns the path of the last export, empty before the
// first EndBattle.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
