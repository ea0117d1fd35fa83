package instrument

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

func newSeededService(t *testing.T, count int) *InstrumentService {
	t.Helper()
	store := memory.NewStore()
	for i := 0; i < count; i++ {
		require.NoError(t, store.Prices().Upsert(context.Background(), &domain.InstrumentPrice{
			Symbol:       "SYM" + string(rune('A'+i%26)) + string(rune('A'+i/26)),
			Name:         "Listed Company",
			AssetType:    domain.AssetTypeStock,
			CurrentPrice: decimal.NewFromInt(100),
			LastUpdated:  time.Now(),
		}))
	}
	return NewInstrumentService(store.Prices())
}

func TestInstrumentService_SearchLimits(t *testing.T) {
	ctx := context.Background()
	service := newSeededService(t, 150)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: DefaultSearchLimit},
		{name: "negative uses default", limit: -3, want: DefaultSearchLimit},
		{name: "explicit limit", limit: 5, want: 5},
		{name: "capped at max", limit: 10_000, want: MaxSearchLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Search(ctx, "company", tt.limit)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestInstrumentService_SearchTrimsQuery(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Prices().Upsert(ctx, &domain.InstrumentPrice{
		Symbol:       "RELIANCE",
		Name:         "Reliance Industries",
		AssetType:    domain.AssetTypeStock,
		CurrentPrice: decimal.NewFromInt(2900),
	}))
	require.NoError(t, store.Prices().Upsert(ctx, &domain.InstrumentPrice{
		Symbol:       "HDFCBANK",
		Name:         "HDFC Bank",
		AssetType:    domain.AssetTypeStock,
		CurrentPrice: decimal.NewFromInt(1600),
	}))
	service := NewInstrumentService(store.Prices())

	got, err := service.Search(ctx, "  industries ", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "RELIANCE", got[0].Symbol)

	all, err := service.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2, "an empty query matches every instrument")
}
