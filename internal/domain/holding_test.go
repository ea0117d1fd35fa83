package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestUpsertOnBuy(t *testing.T) {
	accountID := uuid.New()
	now := time.Now()

	first, err := UpsertOnBuy(nil, accountID, "X", 5, decimal.NewFromInt(2600), now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.Quantity)
	assert.Equal(t, "2600.00", first.AvgCost.StringFixed(2))

	second, err := UpsertOnBuy(first, accountID, "X", 3, decimal.NewFromInt(2800), now)
	require.NoError(t, err)
	assert.Equal(t, int64(8), second.Quantity)
	assert.Equal(t, "2675.00", second.AvgCost.StringFixed(2))
	assert.Equal(t, int64(5), first.Quantity, "existing holding must not be modified")

	// (1*10 + 2*10.01) / 3 = 10.00666..., rounded once
	h, err := UpsertOnBuy(&Holding{AccountID: accountID, Symbol: "Y", Quantity: 1, AvgCost: decimal.NewFromInt(10)},
		accountID, "Y", 2, decimal.RequireFromString("10.01"), now)
	require.NoError(t, err)
	assert.Equal(t, "10.01", h.AvgCost.StringFixed(2))

	_, err = UpsertOnBuy(nil, accountID, "X", 0, decimal.NewFromInt(1), now)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = UpsertOnBuy(nil, accountID, "X", 1, decimal.Zero, now)
	assert.Error(t, err)
}

func TestReduceOnSell(t *testing.T) {
	now := time.Now()
	existing := &Holding{AccountID: uuid.New(), Symbol: "X", Quantity: 8, AvgCost: decimal.RequireFromString("2675.00")}

	tests := []struct {
		name     string
		existing *Holding
		quantity int64
		wantErr  error
		wantQty  int64
		removed  bool
	}{
		{name: "partial sell keeps avg cost", existing: existing, quantity: 4, wantQty: 4},
		{name: "full sell removes holding", existing: existing, quantity: 8, removed: true},
		{name: "oversell fails", existing: existing, quantity: 9, wantErr: ErrInsufficientHoldings},
		{name: "absent holding fails", existing: nil, quantity: 1, wantErr: ErrInsufficientHoldings},
		{name: "zero quantity fails", existing: existing, quantity: 0, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReduceOnSell(tt.existing, tt.quantity, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.removed {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.wantQty, got.Quantity)
			assert.True(t, got.AvgCost.Equal(existing.AvgCost))
			assert.Equal(t, int64(8), existing.Quantity)
		})
	}
}

func TestReplayHoldings(t *testing.T) {
	accountID := uuid.New()
	base := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	tx := func(offset time.Duration, symbol string, side Side, qty int64, price int64) *Transaction {
		return &Transaction{
			ID: uuid.New(), AccountID: accountID, Symbol: symbol, Side: side, Quantity: qty,
			PricePerUnit: decimal.NewFromInt(price), Timestamp: base.Add(offset),
		}
	}

	// deliberately out of order
	log := []*Transaction{
		tx(3*time.Minute, "X", SideSell, 4, 3000),
		tx(0, "X", SideBuy, 5, 2600),
		tx(time.Minute, "X", SideBuy, 3, 2800),
		tx(2*time.Minute, "Y", SideBuy, 1, 500),
		tx(4*time.Minute, "Y", SideSell, 1, 510),
	}

	holdings, err := ReplayHoldings(log)
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	x := holdings[HoldingKey{AccountID: accountID, Symbol: "X"}]
	require.NotNil(t, x)
	assert.Equal(t, int64(4), x.Quantity)
	assert.Equal(t, "2675.00", x.AvgCost.StringFixed(2))

	_, err = ReplayHoldings([]*Transaction{tx(0, "Z", SideSell, 1, 10)})
	assert.ErrorIs(t, err, ErrInsufficientHoldings)
}

func TestHoldingsBook_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		accountID := uuid.New()
		q1 := rapid.Int64Range(1, 10_000).Draw(t, "q1")
		q2 := rapid.Int64Range(1, 10_000).Draw(t, "q2")
		p1 := decimal.New(rapid.Int64Range(1, 10_000_000).Draw(t, "p1"), -2)
		p2 := decimal.New(rapid.Int64Range(1, 10_000_000).Draw(t, "p2"), -2)
		now := time.Now()

		h, err := UpsertOnBuy(nil, accountID, "X", q1, p1, now)
		if err != nil {
			t.Fatalf("first buy: %v", err)
		}
		h, err = UpsertOnBuy(h, accountID, "X", q2, p2, now)
		if err != nil {
			t.Fatalf("second buy: %v", err)
		}

		total := p1.Mul(decimal.NewFromInt(q1)).Add(p2.Mul(decimal.NewFromInt(q2)))
		want := total.Div(decimal.NewFromInt(q1 + q2)).Round(2)
		if !h.AvgCost.Equal(want) {
			t.Fatalf("avg cost %s, want %s", h.AvgCost, want)
		}

		sell := rapid.Int64Range(1, q1+q2).Draw(t, "sell")
		after, err := ReduceOnSell(h, sell, now)
		if err != nil {
			t.Fatalf("sell: %v", err)
		}
		if sell == q1+q2 {
			if after != nil {
				t.Fatalf("full sell left %d units", after.Quantity)
			}
			return
		}
		if after.Quantity <= 0 || after.Quantity != q1+q2-sell {
			t.Fatalf("quantity %d after selling %d of %d", after.Quantity, sell, q1+q2)
		}
		if !after.AvgCost.Equal(h.AvgCost) {
			t.Fatalf("sell changed avg cost from %s to %s", h.AvgCost, after.AvgCost)
		}
	})
}
