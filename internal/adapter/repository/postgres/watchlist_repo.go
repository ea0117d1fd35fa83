package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for a missing referenced row
const foreignKeyViolation = "23503"

// watchlistRepository implements domain.WatchlistRepository
type watchlistRepository struct {
	db dbtx
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db *DB) domain.WatchlistRepository {
	return &watchlistRepository{db: db}
}

// Add records a symbol on the account's watchlist; adding it twice is a no-op
func (r *watchlistRepository) Add(ctx context.Context, item *domain.WatchlistItem) error {
	if item.Symbol == "" {
		return domain.ErrInvalidSymbol
	}

	query := `
		INSERT INTO watchlist (account_id, symbol, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, symbol) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, item.AccountID, item.Symbol, item.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return domain.ErrAccountNotFound
		}
		return domain.NewStorageError("failed to add watchlist item", err)
	}

	return nil
}

// Remove deletes a symbol from the account's watchlist
func (r *watchlistRepository) Remove(ctx context.Context, accountID uuid.UUID, symbol string) error {
	query := `DELETE FROM watchlist WHERE account_id = $1 AND symbol = $2`

	if _, err := r.db.ExecContext(ctx, query, accountID, symbol); err != nil {
		return domain.NewStorageError("failed to remove watchlist item", err)
	}

	return nil
}

// ListByAccount retrieves the account's watchlist, newest first
func (r *watchlistRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.WatchlistItem, error) {
	query := `
		SELECT account_id, symbol, created_at
		FROM watchlist
		WHERE account_id = $1
		ORDER BY created_at DESC, symbol ASC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, domain.NewStorageError("failed to query watchlist", err)
	}
	defer rows.Close()

	var items []*domain.WatchlistItem
	for rows.Next() {
		var item domain.WatchlistItem
		if err := rows.Scan(&item.AccountID, &item.Symbol, &item.CreatedAt); err != nil {
			return nil, domain.NewStorageError("failed to scan watchlist item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("error iterating watchlist", err)
	}

	return items, nil
}
