package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db dbtx
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Append records an executed trade.
// total_amount is a generated column and is never written here.
func (r *transactionRepository) Append(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	query := `
		INSERT INTO transactions (id, account_id, symbol, asset_name, side, quantity, price_per_unit, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.AccountID,
		tx.Symbol,
		tx.AssetName,
		string(tx.Side),
		tx.Quantity,
		tx.PricePerUnit.StringFixed(domain.MoneyPlaces),
		tx.Timestamp,
	)
	if err != nil {
		return domain.NewStorageError("failed to insert transaction", err)
	}

	return nil
}

// ListByAccount retrieves a page of an account's transactions, newest first
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_id, symbol, asset_name, side, quantity, price_per_unit, executed_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY executed_at DESC, seq DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, domain.NewStorageError("failed to query transactions", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0, limit)
	for rows.Next() {
		var tx domain.Transaction
		var side, priceStr string

		err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&tx.Symbol,
			&tx.AssetName,
			&side,
			&tx.Quantity,
			&priceStr,
			&tx.Timestamp,
		)
		if err != nil {
			return nil, domain.NewStorageError("failed to scan transaction", err)
		}
		tx.Side = domain.Side(side)

		// Parse price_per_unit (NUMERIC)
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price_per_unit: %w", err)
		}
		tx.PricePerUnit = price

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("error iterating transactions", err)
	}

	return transactions, nil
}

// CountByAccount returns the number of transactions recorded for an account
func (r *transactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, domain.NewStorageError("failed to count transactions", err)
	}

	return count, nil
}
