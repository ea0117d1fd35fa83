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

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db dbtx
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, name, cash_balance, created_at
		FROM accounts
		WHERE id = $1
	`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, domain.NewStorageError("failed to get account by ID", err)
	}

	return account, nil
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, cash_balance, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Name,
		account.CashBalance.StringFixed(domain.MoneyPlaces),
		account.CreatedAt,
	)
	if err != nil {
		return domain.NewStorageError("failed to create account", err)
	}

	return nil
}

// UpdateBalance persists the account's cash balance
func (r *accountRepository) UpdateBalance(ctx context.Context, account *domain.Account) error {
	if account.CashBalance.IsNegative() {
		return fmt.Errorf("failed to update balance: %w", domain.ErrInsufficientFunds)
	}

	query := `UPDATE accounts SET cash_balance = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, account.ID, account.CashBalance.StringFixed(domain.MoneyPlaces))
	if err != nil {
		return domain.NewStorageError("failed to update cash balance", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("failed to read affected rows", err)
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List retrieves all accounts ordered by creation time
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT id, name, cash_balance, created_at
		FROM accounts
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("failed to query accounts", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, domain.NewStorageError("failed to scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("error iterating accounts", err)
	}

	return accounts, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var account domain.Account
	var balanceStr string

	if err := row.Scan(&account.ID, &account.Name, &balanceStr, &account.CreatedAt); err != nil {
		return nil, err
	}

	// Parse cash_balance (NUMERIC)
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cash_balance: %w", err)
	}
	account.CashBalance = balance

	return &account, nil
}
