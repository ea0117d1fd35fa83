//go:build integration

package postgres

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simaogato/tradesim-backend/internal/domain"
	"github.com/simaogato/tradesim-backend/internal/usecase/trade"
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema
func openTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=tradesim_test sslmode=disable"
	}

	db, err := NewDB(dsn)
	require.NoError(t, err, "integration tests need a reachable postgres")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

// uniqueSymbol keeps test runs from sharing price rows
func uniqueSymbol(prefix string) string {
	return domain.NormalizeSymbol(prefix + uuid.NewString()[:8])
}

func seedAccount(t *testing.T, db *DB, balance int64) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount("integration", decimal.NewFromInt(balance), time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, db.Accounts().Create(context.Background(), account))
	return account
}

func seedPrice(t *testing.T, db *DB, symbol string, price string) {
	t.Helper()
	require.NoError(t, db.Prices().Upsert(context.Background(), &domain.InstrumentPrice{
		Symbol:       symbol,
		Name:         symbol,
		AssetType:    domain.AssetTypeStock,
		CurrentPrice: decimal.RequireFromString(price),
		LastUpdated:  time.Now().UTC(),
	}))
}

func TestIntegration_TradeScenario(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	service := trade.NewTradeService(db, db.Accounts(), db.Transactions(), nil, zap.NewNop())

	account := seedAccount(t, db, 100000)
	symbol := uniqueSymbol("TCS")
	seedPrice(t, db, symbol, "2600")

	_, err := service.ExecuteBuy(ctx, domain.TradeOrder{AccountID: account.ID, Symbol: symbol, Quantity: 5})
	require.NoError(t, err)

	seedPrice(t, db, symbol, "2800")
	result, err := service.ExecuteBuy(ctx, domain.TradeOrder{AccountID: account.ID, Symbol: symbol, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "78600.00", result.CashBalance.StringFixed(2))
	assert.Equal(t, "2675.00", result.Holding.AvgCost.StringFixed(2))

	seedPrice(t, db, symbol, "3000")
	result, err = service.ExecuteSell(ctx, domain.TradeOrder{AccountID: account.ID, Symbol: symbol, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "90600.00", result.CashBalance.StringFixed(2))
	assert.Equal(t, "2675.00", result.Holding.AvgCost.StringFixed(2), "a sell leaves cost basis untouched")

	seedPrice(t, db, symbol, "2900")
	result, err = service.ExecuteSell(ctx, domain.TradeOrder{AccountID: account.ID, Symbol: symbol, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "102200.00", result.CashBalance.StringFixed(2))
	assert.Nil(t, result.Holding)

	_, err = db.Holdings().Get(ctx, account.ID, symbol)
	assert.ErrorIs(t, err, domain.ErrHoldingNotFound, "a zero-quantity holding is deleted")

	transactions, err := db.Transactions().ListByAccount(ctx, account.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 4)
	assert.Equal(t, domain.SideSell, transactions[0].Side, "newest first")

	replayed, err := domain.ReplayHoldings(transactions)
	require.NoError(t, err)
	assert.Empty(t, replayed)
}

func TestIntegration_RollbackLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	account := seedAccount(t, db, 1000)

	injected := errors.New("injected")
	err := db.WithinAccount(ctx, account.ID, func(ctx context.Context, store domain.TradeStore) error {
		drained := *account
		drained.CashBalance = decimal.NewFromInt(1)
		if err := store.Accounts().UpdateBalance(ctx, &drained); err != nil {
			return err
		}
		tx, err := domain.NewTransaction(account.ID, "ROLLBACK", domain.SideBuy, 1, decimal.NewFromInt(999), time.Now().UTC())
		if err != nil {
			return err
		}
		if err := store.Transactions().Append(ctx, tx); err != nil {
			return err
		}
		return injected
	})
	assert.ErrorIs(t, err, injected)

	reloaded, err := db.Accounts().GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", reloaded.CashBalance.StringFixed(2))

	count, err := db.Transactions().CountByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIntegration_ConcurrentFullSells(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	service := trade.NewTradeService(db, db.Accounts(), db.Transactions(), nil, zap.NewNop())

	account := seedAccount(t, db, 100000)
	symbol := uniqueSymbol("INFY")
	seedPrice(t, db, symbol, "1500")

	_, err := service.ExecuteBuy(ctx, domain.TradeOrder{AccountID: account.ID, Symbol: symbol, Quantity: 10})
	require.NoError(t, err)

	const sellers = 8
	var wg sync.WaitGroup
	errs := make([]error, sellers)
	for i := 0; i < sellers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.ExecuteSell(ctx, domain.TradeOrder{AccountID: account.ID, Symbol: symbol, Quantity: 10})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientHoldings)
	}
	assert.Equal(t, 1, succeeded)

	reloaded, err := db.Accounts().GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "100000.00", reloaded.CashBalance.StringFixed(2))
}

func TestIntegration_Watchlist(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	account := seedAccount(t, db, 100)
	symbol := uniqueSymbol("WL")

	item := &domain.WatchlistItem{AccountID: account.ID, Symbol: symbol, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Watchlist().Add(ctx, item))
	require.NoError(t, db.Watchlist().Add(ctx, item), "adding twice is idempotent")

	items, err := db.Watchlist().ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	err = db.Watchlist().Add(ctx, &domain.WatchlistItem{AccountID: uuid.New(), Symbol: symbol, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	require.NoError(t, db.Watchlist().Remove(ctx, account.ID, symbol))
	items, err = db.Watchlist().ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIntegration_SearchPrices(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tag := uniqueSymbol("Q")

	for _, p := range []*domain.InstrumentPrice{
		{Symbol: tag + "B", Name: "Beta Industries", AssetType: domain.AssetTypeStock},
		{Symbol: tag + "A", Name: "Alpha Holdings", AssetType: domain.AssetTypeStock},
		{Symbol: tag + "E", Name: "Index Tracker", AssetType: domain.AssetTypeETF},
	} {
		p.CurrentPrice = decimal.NewFromInt(100)
		p.LastUpdated = time.Now().UTC()
		require.NoError(t, db.Prices().Upsert(ctx, p))
	}

	prices, err := db.Prices().Search(ctx, strings.ToLower(tag), 20)
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Equal(t, tag+"E", prices[0].Symbol, "ETF sorts before Stock")
	assert.Equal(t, tag+"A", prices[1].Symbol)
	assert.Equal(t, tag+"B", prices[2].Symbol)

	prices, err = db.Prices().Search(ctx, tag, 1)
	require.NoError(t, err)
	assert.Len(t, prices, 1)

	prices, err = db.Prices().Search(ctx, tag+"%", 20)
	require.NoError(t, err)
	assert.Empty(t, prices, "wildcards in the query match literally")
}

func TestIntegration_TransactionKeepsAssetName(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	service := trade.NewTradeService(db, db.Accounts(), db.Transactions(), nil, zap.NewNop())

	account := seedAccount(t, db, 10000)
	symbol := uniqueSymbol("NAME")
	require.NoError(t, db.Prices().Upsert(ctx, &domain.InstrumentPrice{
		Symbol:       symbol,
		Name:         "Named Instrument Ltd",
		AssetType:    domain.AssetTypeStock,
		CurrentPrice: decimal.NewFromInt(100),
		LastUpdated:  time.Now().UTC(),
	}))

	_, err := service.ExecuteBuy(ctx, domain.TradeOrder{AccountID: account.ID, Symbol: symbol, Quantity: 1})
	require.NoError(t, err)

	transactions, err := db.Transactions().ListByAccount(ctx, account.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "Named Instrument Ltd", transactions[0].AssetName)
}
