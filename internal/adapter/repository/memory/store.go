// Package memory is an in-process implementation of every repository and of the
// trade unit of work. It backs the server when STORAGE=memory and the engine tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

var (
	_ domain.UnitOfWork = (*Store)(nil)
	_ domain.TradeStore = (*Store)(nil)
	_ domain.TradeStore = (*view)(nil)
)

// tables holds the rows of one store or one staged unit of work
type tables struct {
	accounts     map[uuid.UUID]*domain.Account
	holdings     map[uuid.UUID]map[string]*domain.Holding
	transactions []*domain.Transaction
	prices       map[string]*domain.InstrumentPrice
	watchlist    map[uuid.UUID]map[string]*domain.WatchlistItem
}

func newTables() *tables {
	return &tables{
		accounts:  make(map[uuid.UUID]*domain.Account),
		holdings:  make(map[uuid.UUID]map[string]*domain.Holding),
		prices:    make(map[string]*domain.InstrumentPrice),
		watchlist: make(map[uuid.UUID]map[string]*domain.WatchlistItem),
	}
}

// Store keeps all state in maps guarded by a single RWMutex.
// Trades additionally hold a per-account mutex for their whole duration.
type Store struct {
	mu sync.RWMutex
	t  *tables

	locksMu sync.Mutex
	locks   map[uuid.UUID]*accountLock
}

// accountLock is dropped from Store.locks once no trade holds or waits for it
type accountLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		t:     newTables(),
		locks: make(map[uuid.UUID]*accountLock),
	}
}

// Accounts returns the account repository
func (s *Store) Accounts() domain.AccountRepository {
	return &accountRepository{mu: &s.mu, t: s.t}
}

// Holdings returns the holding repository
func (s *Store) Holdings() domain.HoldingRepository {
	return &holdingRepository{mu: &s.mu, t: s.t}
}

// Transactions returns the transaction repository
func (s *Store) Transactions() domain.TransactionRepository {
	return &transactionRepository{mu: &s.mu, t: s.t}
}

// Prices returns the price repository
func (s *Store) Prices() domain.PriceRepository {
	return &priceRepository{mu: &s.mu, t: s.t}
}

// Watchlist returns the watchlist repository
func (s *Store) Watchlist() domain.WatchlistRepository {
	return &watchlistRepository{mu: &s.mu, t: s.t}
}

// lockAccount blocks until the caller holds the account's trade lock and
// returns the function that releases it
func (s *Store) lockAccount(id uuid.UUID) func() {
	s.locksMu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &accountLock{}
		s.locks[id] = lock
	}
	lock.refs++
	s.locksMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		s.locksMu.Lock()
		defer s.locksMu.Unlock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, id)
		}
	}
}

// WithinAccount implements domain.UnitOfWork.
// fn works on a private copy of the account and its holdings, and its appended
// transactions are kept aside; all of it is committed only when fn returns nil.
func (s *Store) WithinAccount(ctx context.Context, accountID uuid.UUID, fn func(ctx context.Context, store domain.TradeStore) error) error {
	unlock := s.lockAccount(accountID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	v, err := s.stage(accountID)
	if err != nil {
		return err
	}

	if err := fn(ctx, v); err != nil {
		return err
	}

	s.commit(accountID, v)
	return nil
}

func (s *Store) stage(accountID uuid.UUID) (*view, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.t.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	staged := newTables()
	staged.accounts[accountID] = cloneAccount(account)

	holdings := make(map[string]*domain.Holding, len(s.t.holdings[accountID]))
	for symbol, h := range s.t.holdings[accountID] {
		holdings[symbol] = cloneHolding(h)
	}
	staged.holdings[accountID] = holdings

	return &view{store: s, t: staged}, nil
}

func (s *Store) commit(accountID uuid.UUID, v *view) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.t.accounts[accountID] = v.t.accounts[accountID]
	if holdings := v.t.holdings[accountID]; len(holdings) > 0 {
		s.t.holdings[accountID] = holdings
	} else {
		delete(s.t.holdings, accountID)
	}
	s.t.transactions = append(s.t.transactions, v.t.transactions...)
}

// view is the TradeStore handed to a unit of work.
// v.t.transactions holds only the rows appended inside the unit of work.
type view struct {
	store *Store
	mu    sync.RWMutex
	t     *tables
}

func (v *view) Accounts() domain.AccountRepository {
	return &accountRepository{mu: &v.mu, t: v.t}
}

func (v *view) Holdings() domain.HoldingRepository {
	return &holdingRepository{mu: &v.mu, t: v.t}
}

func (v *view) Transactions() domain.TransactionRepository {
	return &stagedTransactionRepository{v: v}
}

// stagedTransactionRepository appends to the unit of work and reads the
// committed log followed by the staged rows
type stagedTransactionRepository struct {
	v *view
}

func (r *stagedTransactionRepository) Append(ctx context.Context, tx *domain.Transaction) error {
	return (&transactionRepository{mu: &r.v.mu, t: r.v.t}).Append(ctx, tx)
}

func (r *stagedTransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	return pageTransactions(r.rows(accountID), accountID, limit, offset), nil
}

func (r *stagedTransactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	return countTransactions(r.rows(accountID), accountID), nil
}

func (r *stagedTransactionRepository) rows(accountID uuid.UUID) []*domain.Transaction {
	r.v.store.mu.RLock()
	var rows []*domain.Transaction
	for _, tx := range r.v.store.t.transactions {
		if tx.AccountID == accountID {
			rows = append(rows, tx)
		}
	}
	r.v.store.mu.RUnlock()

	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	return append(rows, r.v.t.transactions...)
}

// Prices reads the shared price table; a unit of work never writes prices
func (v *view) Prices() domain.PriceRepository {
	return v.store.Prices()
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func cloneHolding(h *domain.Holding) *domain.Holding {
	c := *h
	return &c
}

func cloneTransaction(tx *domain.Transaction) *domain.Transaction {
	c := *tx
	return &c
}

func clonePrice(p *domain.InstrumentPrice) *domain.InstrumentPrice {
	c := *p
	return &c
}
