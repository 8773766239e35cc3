// internal/storage/storage_test.go
package storage_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironhex/combat/internal/config"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/storage"
	gormstorage "github.com/ironhex/combat/internal/storage/gorm"
	influxstorage "github.com/ironhex/combat/internal/storage/influx"
	"github.com/ironhex/combat/internal/storage/memory"
	"github.com/ironhex/combat/internal/storage/postgres"
	sqlitestorage "github.com/ironhex/combat/internal/storage/sqlite"
	"github.com/ironhex/combat/pkg/command"
	"github.com/ironhex/combat/pkg/core"
)

// Compile-time interface checks
var (
	_ storage.Backend    = (*memory.Backend)(nil)
	_ storage.Backend    = (*gormstorage.Backend)(nil)
	_ storage.Backend    = (*sqlitestorage.Backend)(nil)
	_ storage.Backend    = (*postgres.Backend)(nil)
	_ storage.Backend    = (*influxstorage.Backend)(nil)
	_ storage.Backend    = storage.Discard{}
	_ storage.Exportable = (*memory.Backend)(nil)
	_ storage.Exportable = (*sqlitestorage.Backend)(nil)
	_ game.Sink          = (*storage.Recorder)(nil)
)

type failing struct{ storage.Discard }

func (failing) Record(*core.BattleEvent) error { return errors.New("disk full") }

func TestNewEvent(t *testing.T) {
	cmd := &command.UnitDestroyed{UnitID: uuid.New(), Cause: "pilot killed"}
	cmd.Stamp(uuid.New(), 12)

	e, err := storage.NewEvent(cmd, 4, time.Unix(5, 0))
	require.NoError(t, err)
	assert.Equal(t, 12, e.Seq)
	assert.Equal(t, 4, e.Turn)
	assert.Equal(t, "UnitDestroyed", e.Type)
	assert.Contains(t, string(e.Payload), `"cause":"pilot killed"`)
	assert.Same(t, cmd, e.Data)
}

func TestRecorder_TracksTurn(t *testing.T) {
	b := memory.New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.StartBattle(&core.Battle{ID: uuid.New()}))
	r := storage.NewRecorder(b, slog.Default())

	r.Receive(&command.ChangePhase{Phase: "Initiative", Turn: 1})
	r.Receive(&command.DiceRolled{Roll: []int{3, 4}})
	r.Receive(&command.TurnIncremented{Turn: 2})
	r.Receive(&command.DiceRolled{Roll: []int{1, 1}})

	turns := []int{}
	for _, e := range b.Events() {
		turns = append(turns, e.Turn)
	}
	assert.Equal(t, []int{1, 1, 2, 2}, turns)
	assert.Zero(t, r.Failed())
}

func TestRecorder_CountsFailures(t *testing.T) {
	r := storage.NewRecorder(failing{}, nil)
	r.Receive(&command.TurnIncremented{Turn: 2})
	r.Receive(&command.TurnIncremented{Turn: 3})
	assert.Equal(t, 2, r.Failed())
}

func TestNewBackend(t *testing.T) {
	deps := storage.Dependencies{Log: slog.Default()}

	b, err := storage.NewBackend(config.StorageConfig{Type: "memory"}, deps)
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)

	b, err = storage.NewBackend(config.StorageConfig{Type: "sqlite"}, deps)
	require.NoError(t, err)
	assert.IsType(t, &sqlitestorage.Backend{}, b)
	require.NoError(t, b.Close())

	b, err = storage.NewBackend(config.StorageConfig{Type: "postgres"}, deps)
	require.NoError(t, err)
	assert.IsType(t, &postgres.Backend{}, b)

	b, err = storage.NewBackend(config.StorageConfig{Type: "influx"}, deps)
	require.NoError(t, err)
	assert.IsType(t, &influxstorage.Backend{}, b)

	b, err = storage.NewBackend(config.StorageConfig{Type: "none"}, deps)
	require.NoError(t, err)
	assert.Equal(t, storage.Discard{}, b)

	_, err = storage.NewBackend(config.StorageConfig{Type: "tape"}, deps)
	assert.ErrorContains(t, err, "unknown storage type")
}

func TestRecorder_SubscribedToGame(t *testing.T) {
	b := memory.New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.StartBattle(&core.Battle{ID: uuid.New()}))

	g := game.New(game.Options{})
	g.Subscribe(storage.NewRecorder(b, nil))
	g.Publish(&command.TurnIncremented{Turn: 2})
	g.Publish(&command.GameOver{Turn: 2})

	events := b.Events()
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Seq)
	assert.Equal(t, 2, events[1].Seq)
	assert.Equal(t, 2, events[1].Turn)
}
