// Package backend constructs the persistence gateway selected by
// configuration: in-memory for development, SQLite for single-node
// deployments, Postgres for shared database servers.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage/memory"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage/postgres"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/storage/sqlite"
)

// CleanupFunc releases resources held by a gateway. It may be nil.
type CleanupFunc func() error

// Open creates the configured gateway and its cleanup function.
func Open(cfg Config, logger *slog.Logger) (storage.Gateway, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLite:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite gateway: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, repo.Close, nil

	case Postgres:
		store, err := postgres.NewFromURL(cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize postgres gateway: %w", err)
		}
		logger.Info("Initialized Postgres backend")
		return store, store.Close, nil

	default:
		logger.Info("Initialized memory backend")
		return memory.New(), nil, nil
	}
}
