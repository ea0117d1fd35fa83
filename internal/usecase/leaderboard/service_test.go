package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/adapter/repository/memory"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	entries := []Entry{
		{Name: "dev", GainPercent: decimal.RequireFromString("-1.5")},
		{Name: "asha", GainPercent: decimal.RequireFromString("12.5")},
		{Name: "chen", GainPercent: decimal.RequireFromString("3")},
		{Name: "bola", GainPercent: decimal.RequireFromString("12.5")},
	}

	ranked := Rank(entries)

	require.Len(t, ranked, 4)
	assert.Equal(t, []string{"asha", "bola", "chen", "dev"}, []string{ranked[0].Name, ranked[1].Name, ranked[2].Name, ranked[3].Name})
	assert.Equal(t, []Badge{BadgeGold, BadgeSilver, BadgeBronze, BadgeNone}, []Badge{ranked[0].Badge, ranked[1].Badge, ranked[2].Badge, ranked[3].Badge})
	for i, e := range ranked {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, 0, entries[0].Rank, "input must not be modified")
}

func TestScore(t *testing.T) {
	account := &domain.Account{Name: "asha", CashBalance: decimal.NewFromInt(90600)}

	entry := Score(account, decimal.NewFromInt(12000), decimal.NewFromInt(100000))
	assert.Equal(t, "102600.00", entry.PortfolioValue.StringFixed(2))
	assert.Equal(t, "2600.00", entry.TotalGain.StringFixed(2))
	assert.Equal(t, "2.60", entry.GainPercent.StringFixed(2))

	zero := Score(account, decimal.Zero, decimal.Zero)
	assert.True(t, zero.GainPercent.IsZero())
}

func TestGetLeaderboard(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	newAccount := func(name string, cash int64, offset time.Duration) *domain.Account {
		a, err := domain.NewAccount(name, decimal.NewFromInt(cash), now.Add(offset))
		require.NoError(t, err)
		require.NoError(t, store.Accounts().Create(ctx, a))
		return a
	}

	winner := newAccount("winner", 95000, 0)
	loser := newAccount("loser", 80000, time.Second)
	newAccount("idle", 100000, 2*time.Second)

	require.NoError(t, store.Prices().Upsert(ctx, &domain.InstrumentPrice{Symbol: "X", CurrentPrice: decimal.NewFromInt(3000)}))
	require.NoError(t, store.Holdings().Save(ctx, &domain.Holding{AccountID: winner.ID, Symbol: "X", Quantity: 4, AvgCost: decimal.NewFromInt(2600)}))
	// unpriced holding is worth nothing
	require.NoError(t, store.Holdings().Save(ctx, &domain.Holding{AccountID: loser.ID, Symbol: "DELISTED", Quantity: 10, AvgCost: decimal.NewFromInt(100)}))

	service := NewLeaderboardService(store.Accounts(), store.Holdings(), store.Prices(), decimal.NewFromInt(100000))

	board, err := service.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 3)

	assert.Equal(t, "winner", board[0].Name)
	assert.Equal(t, "107000.00", board[0].PortfolioValue.StringFixed(2))
	assert.Equal(t, "7.00", board[0].GainPercent.StringFixed(2))
	assert.Equal(t, BadgeGold, board[0].Badge)

	assert.Equal(t, "idle", board[1].Name)
	assert.True(t, board[1].GainPercent.IsZero())

	assert.Equal(t, "loser", board[2].Name)
	assert.Equal(t, "-20.00", board[2].GainPercent.StringFixed(2))

	top, err := service.GetLeaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "winner", top[0].Name)
}
