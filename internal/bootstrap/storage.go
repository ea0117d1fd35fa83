package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simaogato/tradesim-backend/internal/adapter/repository/memory"
	"github.com/simaogato/tradesim-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/tradesim-backend/internal/config"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// Storage bundles the repositories of one backend
type Storage struct {
	Accounts     domain.AccountRepository
	Holdings     domain.HoldingRepository
	Transactions domain.TransactionRepository
	Prices       domain.PriceRepository
	Watchlist    domain.WatchlistRepository
	UnitOfWork   domain.UnitOfWork

	close func() error
}

// Close releases the backend's connections
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStorage connects the backend selected by cfg.Storage.
// Postgres is retried until ctx is done and its schema is migrated.
func OpenStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Storage, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, state is lost on exit")
		store := memory.NewStore()
		return &Storage{
			Accounts:     store.Accounts(),
			Holdings:     store.Holdings(),
			Transactions: store.Transactions(),
			Prices:       store.Prices(),
			Watchlist:    store.Watchlist(),
			UnitOfWork:   store,
		}, nil
	}

	db, err := connectPostgres(ctx, cfg.DSN(), logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{
		Accounts:     db.Accounts(),
		Holdings:     db.Holdings(),
		Transactions: db.Transactions(),
		Prices:       db.Prices(),
		Watchlist:    db.Watchlist(),
		UnitOfWork:   db,
		close:        db.Close,
	}, nil
}

// connectPostgres waits for the database to accept connections
func connectPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*postgres.DB, error) {
	const attempts = 10
	backoff := 500 * time.Millisecond

	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := postgres.NewDB(dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err
		logger.Warn("database not ready", zap.Int("attempt", i), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, lastErr)
}
