// Package gormstorage implements the storage.Backend interface on GORM with
// internal queues drained into the database by a background writer
// goroutine. The sqlite and postgres backends wrap it.
package gormstorage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ironhex/combat/internal/model"
	"github.com/ironhex/combat/internal/model/convert"
	"github.com/ironhex/combat/internal/queue"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// ErrNoDatabase is returned by operations that need a connection.
var ErrNoDatabase = errors.New("no database configured")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB  *gorm.DB
	Log *slog.Logger
	// FlushInterval is how often the writer drains the queues. Zero means
	// two seconds.
	FlushInterval time.Duration
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Events       *queue.Queue[model.BattleEvent]
	Attacks      *queue.Queue[model.AttackRecord]
	Falls        *queue.Queue[model.FallRecord]
	Destructions *queue.Queue[model.DestructionRecord]
}

func newQueues() *queues {
	return &queues{
		Events:       queue.New[model.BattleEvent](),
		Attacks:      queue.New[model.AttackRecord](),
		Falls:        queue.New[model.FallRecord](),
		Destructions: queue.New[model.DestructionRecord](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps     Dependencies
	queues   *queues
	battleID atomic.Uint64
	stopChan chan struct{}
	done     chan struct{}

	mu       sync.Mutex // guards turns, winnerID and serializes flushes
	turns    int
	winnerID uuid.UUID
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = 2 * time.Second
	}
	return &Backend{
		deps:   deps,
		queues: newQueues(),
	}
}

// DB returns the connection, nil in queue-only mode.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// SetDB injects the connection before Init. Wrapping backends open their own.
func (b *Backend) SetDB(db *gorm.DB) {
	b.deps.DB = db
}

// Init migrates the schema and starts the DB writer goroutine. Without a
// DB the backend only queues, which is what the unit tests use.
func (b *Backend) Init() error {
	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})

	if b.deps.DB == nil {
		close(b.done)
		return nil
	}

	b.deps.Log.Info("Migrating schema", "dialect", b.deps.DB.Name())
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	go b.writer()
	return nil
}

// Close stops the writer and flushes what is still queued.
func (b *Backend) Close() error {
	if b.stopChan == nil {
		return nil
	}
	select {
	case <-b.stopChan:
		return nil
	default:
	}
	close(b.stopChan)
	<-b.done

	if b.deps.DB == nil {
		return nil
	}
	return b.Flush()
}

// StartBattle inserts the battle row and its players synchronously so every
// queued event can reference it.
func (b *Backend) StartBattle(battle *core.Battle) error {
	b.mu.Lock()
	b.turns = 0
	b.winnerID = uuid.Nil
	b.mu.Unlock()

	if b.deps.DB == nil {
		return nil
	}

	row := convert.BattleToGorm(*battle)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert battle: %w", err)
	}
	b.battleID.Store(uint64(row.ID))
	b.deps.Log.Info("Battle started", "battle", battle.ID, "rowId", row.ID)
	return nil
}

// BattleRowID returns the database id of the current battle.
func (b *Backend) BattleRowID() uint {
	return uint(b.battleID.Load())
}

// Record queues the event and the flattened rows derived from it.
func (b *Backend) Record(e *core.BattleEvent) error {
	b.queues.Events.Push(convert.EventToGorm(*e))

	switch c := e.Data.(type) {
	case *command.WeaponAttackResolution:
		b.queues.Attacks.Push(convert.AttackToGorm(*e, c.Data))
	case *command.MechFall:
		b.queues.Falls.Push(convert.FallToGorm(*e, c.Data))
	case *command.UnitDestroyed:
		b.queues.Destructions.Push(convert.DestructionToGorm(*e, c.UnitID, c.Cause))
	case *command.GameOver:
		b.mu.Lock()
		b.winnerID = c.WinnerID
		b.mu.Unlock()
	}

	b.mu.Lock()
	if e.Turn > b.turns {
		b.turns = e.Turn
	}
	b.mu.Unlock()
	return nil
}

// EndBattle flushes the queues and closes the battle row.
func (b *Backend) EndBattle() error {
	if b.deps.DB == nil {
		return nil
	}
	if err := b.Flush(); err != nil {
		return err
	}

	b.mu.Lock()
	turns, winner := b.turns, b.winnerID
	b.mu.Unlock()

	updates := map[string]any{
		"end_time": sql.NullTime{Time: time.Now(), Valid: true},
		"turns":    turns,
	}
	if winner != uuid.Nil {
		updates["winner_id"] = winner.String()
	}
	err := b.deps.DB.Model(&model.Battle{}).Where("id = ?", b.BattleRowID()).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to close battle: %w", err)
	}
	return nil
}

// Flush writes every queued row now.
func (b *Backend) Flush() error {
	if b.deps.DB == nil {
		return ErrNoDatabase
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	battleID := b.BattleRowID()
	db := b.deps.DB
	log := b.deps.Log

	return errors.Join(
		writeQueue(db, b.queues.Events, "battle events", log, func(items []model.BattleEvent) {
			for i := range items {
				items[i].BattleID = battleID
			}
		}),
		writeQueue(db, b.queues.Attacks, "attack records", log, func(items []model.AttackRecord) {
			for i := range items {
				items[i].BattleID = battleID
			}
		}),
		writeQueue(db, b.queues.Falls, "fall records", log, func(items []model.FallRecord) {
			for i := range items {
				items[i].BattleID = battleID
			}
		}),
		writeQueue(db, b.queues.Destructions, "destruction records", log, func(items []model.DestructionRecord) {
			for i := range items {
				items[i].BattleID = battleID
			}
		}),
	)
}

// writeQueue writes all items from a queue to the database in a transaction.
// Failed items go back on the queue for the next cycle.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger, prepare func([]T)) error {
	if q.Empty() {
		return nil
	}

	tx := db.Begin()
	items := q.Drain()
	if prepare != nil {
		prepare(items)
	}
	if err := tx.Create(&items).Error; err != nil {
		log.Error("Error creating rows", "table", name, "count", len(items), "error", err)
		tx.Rollback()
		q.Push(items...)
		return fmt.Errorf("write %s: %w", name, err)
	}

	if err := tx.Commit().Error; err != nil {
		q.Push(items...)
		return fmt.Errorf("commit %s: %w", name, err)
	}
	log.Debug("Wrote rows", "table", name, "count", len(items))
	return nil
}

// writer periodically drains the queues into the DB.
func (b *Backend) writer() {
	defer close(b.done)

	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.deps.Log.Error("Periodic flush failed", "error", err)
			}
		}
	}
}
