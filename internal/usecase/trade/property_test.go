package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/adapter/repository/memory"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"go.uber.org/zap"
	"pgregory.net/rapid"
)

var propertySymbols = []string{"RELIANCE.NS", "TCS.NS", "GOLDBEES.NS"}

// TestTradeService_Properties drives random order sequences against fixed prices and
// checks conservation of value, non-negative state and replay of the transaction log.
func TestTradeService_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := memory.NewStore()

		start := decimal.New(rapid.Int64Range(0, 50_000_000).Draw(t, "start_cents"), -2)
		account, err := domain.NewAccount("prop", start, time.Now())
		if err != nil {
			t.Fatalf("new account: %v", err)
		}
		if err := store.Accounts().Create(ctx, account); err != nil {
			t.Fatalf("create account: %v", err)
		}

		prices := make(map[string]decimal.Decimal, len(propertySymbols))
		for _, symbol := range propertySymbols {
			p := decimal.New(rapid.Int64Range(1, 500_000).Draw(t, symbol+"_cents"), -2)
			prices[symbol] = p
			if err := store.Prices().Upsert(ctx, &domain.InstrumentPrice{Symbol: symbol, CurrentPrice: p}); err != nil {
				t.Fatalf("upsert price: %v", err)
			}
		}

		service := NewTradeService(store, store.Accounts(), store.Transactions(), nil, zap.NewNop())
		clock := time.Date(2025, 1, 1, 9, 15, 0, 0, time.UTC)
		service.Now = func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			order := domain.TradeOrder{
				AccountID: account.ID,
				Symbol:    rapid.SampledFrom(propertySymbols).Draw(t, "symbol"),
				Quantity:  rapid.Int64Range(1, 50).Draw(t, "quantity"),
			}
			if rapid.Bool().Draw(t, "buy") {
				_, err = service.ExecuteBuy(ctx, order)
			} else {
				_, err = service.ExecuteSell(ctx, order)
			}
			if err != nil && !errors.Is(err, domain.ErrInsufficientFunds) && !errors.Is(err, domain.ErrInsufficientHoldings) {
				t.Fatalf("unexpected trade error: %v", err)
			}
		}

		current, err := store.Accounts().GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("get account: %v", err)
		}
		if current.CashBalance.IsNegative() {
			t.Fatalf("negative cash balance %s", current.CashBalance)
		}

		holdings, err := store.Holdings().ListByAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("list holdings: %v", err)
		}
		holdingsValue := decimal.Zero
		for _, h := range holdings {
			if h.Quantity <= 0 {
				t.Fatalf("holding %s has quantity %d", h.Symbol, h.Quantity)
			}
			holdingsValue = holdingsValue.Add(prices[h.Symbol].Mul(decimal.NewFromInt(h.Quantity)))
		}

		if !current.CashBalance.Add(holdingsValue).Equal(start) {
			t.Fatalf("value not conserved: cash %s + holdings %s != start %s", current.CashBalance, holdingsValue, start)
		}

		txs, err := store.Transactions().ListByAccount(ctx, account.ID, 0, 0)
		if err != nil {
			t.Fatalf("list transactions: %v", err)
		}
		cashFromLog := start
		for _, tx := range txs {
			cashFromLog = cashFromLog.Add(tx.CashDelta())
		}
		if !cashFromLog.Equal(current.CashBalance) {
			t.Fatalf("cash %s does not match log %s", current.CashBalance, cashFromLog)
		}

		replayed, err := domain.ReplayHoldings(txs)
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		if len(replayed) != len(holdings) {
			t.Fatalf("replayed %d holdings, stored %d", len(replayed), len(holdings))
		}
		for _, h := range holdings {
			r, ok := replayed[h.Key()]
			if !ok || r.Quantity != h.Quantity || !r.AvgCost.Equal(h.AvgCost) {
				t.Fatalf("replay mismatch for %s: stored %d@%s", h.Symbol, h.Quantity, h.AvgCost)
			}
		}
	})
}
