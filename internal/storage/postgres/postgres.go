// Package postgres implements the storage.Backend interface on PostgreSQL.
// It wraps the GORM backend and opens its own connection from the db.*
// configuration keys.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/ironhex/combat/internal/database"
	gormstorage "github.com/ironhex/combat/internal/storage/gorm"
)

// Backend is the GORM backend bound to PostgreSQL.
type Backend struct {
	*gormstorage.Backend
	log *slog.Logger
}

// New creates the backend. The connection is made by Init.
func New(log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{Log: log}),
		log:     log,
	}
}

// Init connects to postgres, validates the connection and starts the
// embedded GORM backend. A connection already injected with SetDB is kept.
func (b *Backend) Init() error {
	if b.DB() == nil {
		db, err := database.GetPostgresDBStandalone()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.SetDB(db)
		b.log.Info("Connected to postgres")
	}
	return b.Backend.Init()
}
