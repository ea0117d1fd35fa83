package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/simaogato/tradesim-backend/internal/domain"
)

//go:embed schema.sql
var schema string

// dbtx is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// either standalone or inside a unit of work
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps the database connection
type DB struct {
	*sql.DB
}

var (
	_ domain.UnitOfWork = (*DB)(nil)
	_ domain.TradeStore = (*DB)(nil)
	_ domain.TradeStore = (*txStore)(nil)
)

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=tradesim sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Migrate creates the tables and indexes if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return domain.NewStorageError("failed to apply schema", err)
	}
	return nil
}

// Accounts returns an account repository bound to the connection pool
func (db *DB) Accounts() domain.AccountRepository { return NewAccountRepository(db) }

// Holdings returns a holding repository bound to the connection pool
func (db *DB) Holdings() domain.HoldingRepository { return NewHoldingRepository(db) }

// Transactions returns a transaction repository bound to the connection pool
func (db *DB) Transactions() domain.TransactionRepository { return NewTransactionRepository(db) }

// Prices returns a price repository bound to the connection pool
func (db *DB) Prices() domain.PriceRepository { return NewPriceRepository(db) }

// Watchlist returns a watchlist repository bound to the connection pool
func (db *DB) Watchlist() domain.WatchlistRepository { return NewWatchlistRepository(db) }

// WithinAccount implements domain.UnitOfWork with one database transaction.
// The account row is locked with SELECT ... FOR UPDATE before fn runs, which
// serializes trades on the same account until commit or rollback.
func (db *DB) WithinAccount(ctx context.Context, accountID uuid.UUID, fn func(ctx context.Context, store domain.TradeStore) error) error {
	dbTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("failed to begin transaction", err)
	}
	defer dbTx.Rollback()

	var locked uuid.UUID
	err = dbTx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAccountNotFound
		}
		return domain.NewStorageError("failed to lock account", err)
	}

	if err := fn(ctx, &txStore{q: dbTx}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return domain.NewStorageError("failed to commit transaction", err)
	}

	return nil
}

// txStore exposes the repositories bound to an open database transaction
type txStore struct {
	q dbtx
}

func (s *txStore) Accounts() domain.AccountRepository         { return &accountRepository{db: s.q} }
func (s *txStore) Holdings() domain.HoldingRepository         { return &holdingRepository{db: s.q} }
func (s *txStore) Transactions() domain.TransactionRepository { return &transactionRepository{db: s.q} }
func (s *txStore) Prices() domain.PriceRepository             { return &priceRepository{db: s.q} }
