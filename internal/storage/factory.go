// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/ironhex/combat/internal/config"
	"github.com/ironhex/combat/internal/influx"
	influxstorage "github.com/ironhex/combat/internal/storage/influx"
	"github.com/ironhex/combat/internal/storage/memory"
	"github.com/ironhex/combat/internal/storage/postgres"
	sqlitestorage "github.com/ironhex/combat/internal/storage/sqlite"
	"github.com/ironhex/combat/pkg/core"
)

// Dependencies are the loggers handed to the backends.
type Dependencies struct {
	Log        *slog.Logger
	ManagerLog zerolog.Logger
}

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(deps.Log), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.Path,
		}, deps.Log)
	case "memory":
		return memory.New(cfg.Memory), nil
	case "influx":
		return influxstorage.New(influx.NewManager(deps.ManagerLog, cfg.Influx.BackupPath)), nil
	case "none":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Init() error                    { return nil }
func (Discard) Close() error                   { return nil }
func (Discard) StartBattle(*core.Battle) error { return nil }
func (Discard) EndBattle() error               { return nil }
func (Discard) Record(*core.BattleEvent) error { return nil }
