package repositories

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
	"github.com/SscSPs/editorial_workflow/internal/repositories/database/pgsql"
	"github.com/SscSPs/editorial_workflow/internal/repositories/memory"
	"github.com/SscSPs/editorial_workflow/pkg/database"
)

// Backend is an opened store exposed through the repository ports.
type Backend struct {
	Repos portsrepo.RepositoryProvider
	// Ping is nil for stores that cannot become unreachable.
	Ping  func(ctx context.Context) error
	Close func()
}

// Open builds the store selected by cfg.StorageDriver. For postgres, pending
// migrations are applied when migrate is set.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using the in-memory store; all data is lost on exit")
		return &Backend{Repos: memory.NewStore().Provider(), Close: func() {}}, nil

	case config.StorageDriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("initialize database pool: %w", err)
		}
		if migrate {
			logger.Info("Running database migrations...")
			if _, err := database.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Backend{
			Repos: pgsql.NewRepositoryProvider(pool),
			Ping:  pool.Ping,
			Close: func() { database.ClosePgxPool(pool) },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
