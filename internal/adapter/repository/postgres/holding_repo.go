package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db dbtx
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// Get retrieves the holding for an account and symbol
func (r *holdingRepository) Get(ctx context.Context, accountID uuid.UUID, symbol string) (*domain.Holding, error) {
	query := `
		SELECT account_id, symbol, quantity, avg_cost, updated_at
		FROM holdings
		WHERE account_id = $1 AND symbol = $2
	`

	holding, err := scanHolding(r.db.QueryRowContext(ctx, query, accountID, symbol))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHoldingNotFound
		}
		return nil, domain.NewStorageError("failed to get holding", err)
	}

	return holding, nil
}

// ListByAccount retrieves all holdings of an account ordered by symbol
func (r *holdingRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Holding, error) {
	query := `
		SELECT account_id, symbol, quantity, avg_cost, updated_at
		FROM holdings
		WHERE account_id = $1
		ORDER BY symbol ASC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, domain.NewStorageError("failed to query holdings", err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, domain.NewStorageError("failed to scan holding", err)
		}
		holdings = append(holdings, holding)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("error iterating holdings", err)
	}

	return holdings, nil
}

// Save inserts or replaces the holding
func (r *holdingRepository) Save(ctx context.Context, holding *domain.Holding) error {
	if err := holding.Validate(); err != nil {
		return fmt.Errorf("failed to save holding: %w", err)
	}

	query := `
		INSERT INTO holdings (account_id, symbol, quantity, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, symbol) DO UPDATE
		SET quantity = EXCLUDED.quantity,
		    avg_cost = EXCLUDED.avg_cost,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		holding.AccountID,
		holding.Symbol,
		holding.Quantity,
		holding.AvgCost.StringFixed(domain.MoneyPlaces),
		holding.UpdatedAt,
	)
	if err != nil {
		return domain.NewStorageError("failed to save holding", err)
	}

	return nil
}

// Delete removes the holding for an account and symbol
func (r *holdingRepository) Delete(ctx context.Context, accountID uuid.UUID, symbol string) error {
	query := `DELETE FROM holdings WHERE account_id = $1 AND symbol = $2`

	if _, err := r.db.ExecContext(ctx, query, accountID, symbol); err != nil {
		return domain.NewStorageError("failed to delete holding", err)
	}

	return nil
}

func scanHolding(row rowScanner) (*domain.Holding, error) {
	var holding domain.Holding
	var avgCostStr string

	err := row.Scan(
		&holding.AccountID,
		&holding.Symbol,
		&holding.Quantity,
		&avgCostStr,
		&holding.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Parse avg_cost (NUMERIC)
	avgCost, err := decimal.NewFromString(avgCostStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse avg_cost: %w", err)
	}
	holding.AvgCost = avgCost

	return &holding, nil
}
