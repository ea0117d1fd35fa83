package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	mu *sync.RWMutex
	t  *tables
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.t.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.t.accounts[account.ID]; exists {
		return fmt.Errorf("failed to create account: account %s already exists", account.ID)
	}
	r.t.accounts[account.ID] = cloneAccount(account)
	return nil
}

// UpdateBalance persists the account's cash balance
func (r *accountRepository) UpdateBalance(ctx context.Context, account *domain.Account) error {
	if account.CashBalance.IsNegative() {
		return fmt.Errorf("failed to update balance: %w", domain.ErrInsufficientFunds)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.t.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	updated := cloneAccount(existing)
	updated.CashBalance = account.CashBalance
	r.t.accounts[account.ID] = updated
	return nil
}

// List retrieves all accounts ordered by creation time
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.t.accounts))
	for _, a := range r.t.accounts {
		accounts = append(accounts, cloneAccount(a))
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID.String() < accounts[j].ID.String()
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	mu *sync.RWMutex
	t  *tables
}

// Get retrieves the holding for an account and symbol
func (r *holdingRepository) Get(ctx context.Context, accountID uuid.UUID, symbol string) (*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.t.holdings[accountID][symbol]
	if !ok {
		return nil, domain.ErrHoldingNotFound
	}
	return cloneHolding(h), nil
}

// ListByAccount retrieves all holdings of an account ordered by symbol
func (r *holdingRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	holdings := make([]*domain.Holding, 0, len(r.t.holdings[accountID]))
	for _, h := range r.t.holdings[accountID] {
		holdings = append(holdings, cloneHolding(h))
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

// Save inserts or replaces the holding
func (r *holdingRepository) Save(ctx context.Context, holding *domain.Holding) error {
	if err := holding.Validate(); err != nil {
		return fmt.Errorf("failed to save holding: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byAccount, ok := r.t.holdings[holding.AccountID]
	if !ok {
		byAccount = make(map[string]*domain.Holding)
		r.t.holdings[holding.AccountID] = byAccount
	}
	byAccount[holding.Symbol] = cloneHolding(holding)
	return nil
}

// Delete removes the holding for an account and symbol
func (r *holdingRepository) Delete(ctx context.Context, accountID uuid.UUID, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byAccount := r.t.holdings[accountID]
	delete(byAccount, symbol)
	if len(byAccount) == 0 {
		delete(r.t.holdings, accountID)
	}
	return nil
}

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	mu *sync.RWMutex
	t  *tables
}

// Append records an executed trade
func (r *transactionRepository) Append(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.t.transactions = append(r.t.transactions, cloneTransaction(tx))
	return nil
}

// ListByAccount retrieves a page of an account's transactions, newest first.
// Transactions with equal timestamps are returned in reverse insertion order.
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return pageTransactions(r.t.transactions, accountID, limit, offset), nil
}

// CountByAccount returns the number of transactions recorded for an account
func (r *transactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return countTransactions(r.t.transactions, accountID), nil
}

// pageTransactions selects the account's rows from a log kept in insertion order
func pageTransactions(log []*domain.Transaction, accountID uuid.UUID, limit, offset int) []*domain.Transaction {
	var matched []*domain.Transaction
	for i := len(log) - 1; i >= 0; i-- {
		if tx := log[i]; tx.AccountID == accountID {
			matched = append(matched, tx)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if offset >= len(matched) {
		return []*domain.Transaction{}
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	page := make([]*domain.Transaction, 0, end-offset)
	for _, tx := range matched[offset:end] {
		page = append(page, cloneTransaction(tx))
	}
	return page
}

func countTransactions(log []*domain.Transaction, accountID uuid.UUID) int {
	count := 0
	for _, tx := range log {
		if tx.AccountID == accountID {
			count++
		}
	}
	return count
}

// priceRepository implements domain.PriceRepository
type priceRepository struct {
	mu *sync.RWMutex
	t  *tables
}

// Get retrieves the latest price for a symbol
func (r *priceRepository) Get(ctx context.Context, symbol string) (*domain.InstrumentPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.t.prices[symbol]
	if !ok {
		return nil, domain.ErrUnknownInstrument
	}
	return clonePrice(p), nil
}

// Upsert inserts or replaces the price for a symbol
func (r *priceRepository) Upsert(ctx context.Context, price *domain.InstrumentPrice) error {
	if err := price.Validate(); err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.t.prices[price.Symbol] = clonePrice(price)
	return nil
}

// List retrieves all prices ordered by symbol
func (r *priceRepository) List(ctx context.Context) ([]*domain.InstrumentPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prices := make([]*domain.InstrumentPrice, 0, len(r.t.prices))
	for _, p := range r.t.prices {
		prices = append(prices, clonePrice(p))
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Symbol < prices[j].Symbol })
	return prices, nil
}

// Search retrieves up to limit prices whose symbol or name contains query, ignoring case
func (r *priceRepository) Search(ctx context.Context, query string, limit int) ([]*domain.InstrumentPrice, error) {
	needle := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.InstrumentPrice
	for _, p := range r.t.prices {
		if strings.Contains(strings.ToLower(p.Symbol), needle) || strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, clonePrice(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].AssetType != matched[j].AssetType {
			return matched[i].AssetType < matched[j].AssetType
		}
		return matched[i].Symbol < matched[j].Symbol
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// watchlistRepository implements domain.WatchlistRepository
type watchlistRepository struct {
	mu *sync.RWMutex
	t  *tables
}

// Add records a symbol on the account's watchlist
func (r *watchlistRepository) Add(ctx context.Context, item *domain.WatchlistItem) error {
	if item.Symbol == "" {
		return domain.ErrInvalidSymbol
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.t.accounts[item.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}

	byAccount, ok := r.t.watchlist[item.AccountID]
	if !ok {
		byAccount = make(map[string]*domain.WatchlistItem)
		r.t.watchlist[item.AccountID] = byAccount
	}
	if _, exists := byAccount[item.Symbol]; exists {
		return nil
	}
	c := *item
	byAccount[item.Symbol] = &c
	return nil
}

// Remove deletes a symbol from the account's watchlist
func (r *watchlistRepository) Remove(ctx context.Context, accountID uuid.UUID, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.t.watchlist[accountID], symbol)
	return nil
}

// ListByAccount retrieves the account's watchlist, newest first
func (r *watchlistRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.WatchlistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*domain.WatchlistItem, 0, len(r.t.watchlist[accountID]))
	for _, item := range r.t.watchlist[accountID] {
		c := *item
		items = append(items, &c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].Symbol < items[j].Symbol
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
