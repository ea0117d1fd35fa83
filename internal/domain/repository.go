package domain

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	// Returns ErrAccountNotFound if the account does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// UpdateBalance persists the account's cash balance
	UpdateBalance(ctx context.Context, account *Account) error

	// List retrieves all accounts ordered by creation time
	List(ctx context.Context) ([]*Account, error)
}

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	// Get retrieves the holding for an account and symbol
	// Returns ErrHoldingNotFound if the account holds no units of the symbol
	Get(ctx context.Context, accountID uuid.UUID, symbol string) (*Holding, error)

	// ListByAccount retrieves all holdings of an account ordered by symbol
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Holding, error)

	// Save inserts or replaces the holding
	Save(ctx context.Context, holding *Holding) error

	// Delete removes the holding for an account and symbol
	Delete(ctx context.Context, accountID uuid.UUID, symbol string) error
}

// TransactionRepository defines the interface for the append-only transaction log
type TransactionRepository interface {
	// Append records an executed trade
	Append(ctx context.Context, tx *Transaction) error

	// ListByAccount retrieves a page of an account's transactions, newest first
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)

	// CountByAccount returns the number of transactions recorded for an account
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error)
}

// PriceRepository defines the interface for the price store
type PriceRepository interface {
	// Get retrieves the latest price for a symbol
	// Returns ErrUnknownInstrument if no price has been recorded
	Get(ctx context.Context, symbol string) (*InstrumentPrice, error)

	// Upsert inserts or replaces the price for a symbol
	Upsert(ctx context.Context, price *InstrumentPrice) error

	// List retrieves all prices ordered by symbol
	List(ctx context.Context) ([]*InstrumentPrice, error)

	// Search retrieves up to limit prices whose symbol or name contains query,
	// ignoring case, ordered by asset type then symbol
	Search(ctx context.Context, query string, limit int) ([]*InstrumentPrice, error)
}

// WatchlistRepository defines the interface for watchlist persistence operations
type WatchlistRepository interface {
	// Add records a symbol on the account's watchlist; adding it twice is a no-op
	Add(ctx context.Context, item *WatchlistItem) error

	// Remove deletes a symbol from the account's watchlist
	Remove(ctx context.Context, accountID uuid.UUID, symbol string) error

	// ListByAccount retrieves the account's watchlist, newest first
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*WatchlistItem, error)
}

// TradeStore groups the repositories a trade mutates, bound to one unit of work
type TradeStore interface {
	Accounts() AccountRepository
	Holdings() HoldingRepository
	Transactions() TransactionRepository
	Prices() PriceRepository
}

// UnitOfWork runs trade logic as a single all-or-nothing unit
type UnitOfWork interface {
	// WithinAccount locks the account, then runs fn against a store whose writes are
	// committed only if fn returns nil. Calls for the same account are serialized;
	// calls for different accounts proceed concurrently.
	// Returns ErrAccountNotFound if the account does not exist.
	WithinAccount(ctx context.Context, accountID uuid.UUID, fn func(ctx context.Context, store TradeStore) error) error
}
