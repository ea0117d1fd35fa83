package pricing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/adapter/repository/memory"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSource is a mock implementation of Source for testing
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Quote(ctx context.Context, instrument Instrument) (Quote, error) {
	args := m.Called(ctx, instrument)
	return args.Get(0).(Quote), args.Error(1)
}

func quoteOf(price string) Quote {
	return Quote{Price: decimal.RequireFromString(price), Change: decimal.Zero, ChangePercent: decimal.Zero}
}

func TestRefresher_RefreshOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	primary := new(MockSource)

	refresher := NewRefresher(Params{Pause: -1}, store.Prices(), primary, zap.NewNop())
	refresher.Fallback = FallbackSource{Rand: fixed(0.5)}
	refresher.Funds = NAVSource{Rand: fixed(0.5)}
	refresher.Catalogue = []Instrument{
		nse("TCS.NS", "Tata Consultancy Services", domain.AssetTypeStock, "3062.40"),
		nse("INFY.NS", "Infosys Limited", domain.AssetTypeStock, "1497.50"),
		fund("SBISMALL", "SBI Small Cap Fund", "98.40"),
	}

	primary.On("Quote", mock.Anything, mock.MatchedBy(func(i Instrument) bool { return i.Ticker == "TCS.NS" })).
		Return(quoteOf("3100.10"), nil)
	primary.On("Quote", mock.Anything, mock.MatchedBy(func(i Instrument) bool { return i.Ticker == "INFY.NS" })).
		Return(Quote{}, errors.New("rate limited"))

	updated := refresher.RefreshOnce(ctx)
	assert.Equal(t, 3, updated)

	tcs, err := store.Prices().Get(ctx, "TCS")
	require.NoError(t, err)
	assert.Equal(t, "3100.10", tcs.CurrentPrice.StringFixed(2))
	assert.Equal(t, domain.AssetTypeStock, tcs.AssetType)
	assert.Equal(t, "Tata Consultancy Services", tcs.Name)

	infy, err := store.Prices().Get(ctx, "INFY")
	require.NoError(t, err)
	assert.Equal(t, "1497.50", infy.CurrentPrice.StringFixed(2), "failed primary falls back to the base price")

	fundPrice, err := store.Prices().Get(ctx, "SBISMALL")
	require.NoError(t, err)
	assert.Equal(t, "98.40", fundPrice.CurrentPrice.StringFixed(2))
	assert.Equal(t, domain.AssetTypeMutualFund, fundPrice.AssetType)

	primary.AssertNumberOfCalls(t, "Quote", 2)
}

func TestRefresher_StaticSource(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	refresher := NewRefresher(Params{Pause: -1}, store.Prices(), nil, zap.NewNop())

	updated := refresher.RefreshOnce(ctx)
	assert.Equal(t, len(DefaultCatalogue()), updated)

	prices, err := store.Prices().List(ctx)
	require.NoError(t, err)
	assert.Len(t, prices, len(DefaultCatalogue()))
}

// countingPrices counts upserts and delegates to a real price repository
type countingPrices struct {
	domain.PriceRepository
	upserts atomic.Int64
}

func (c *countingPrices) Upsert(ctx context.Context, price *domain.InstrumentPrice) error {
	c.upserts.Add(1)
	return c.PriceRepository.Upsert(ctx, price)
}

func TestRefresher_Run(t *testing.T) {
	tests := []struct {
		name            string
		marketHoursOnly bool
		now             time.Time
		wantPasses      int64
		atLeast         bool
	}{
		{
			name:            "refreshes on every tick during market hours",
			marketHoursOnly: true,
			now:             time.Date(2025, 1, 6, 11, 0, 0, 0, time.UTC),
			wantPasses:      2,
			atLeast:         true,
		},
		{
			name:            "only the initial refresh runs when the market is closed",
			marketHoursOnly: true,
			now:             time.Date(2025, 1, 6, 20, 0, 0, 0, time.UTC),
			wantPasses:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := &countingPrices{PriceRepository: memory.NewStore().Prices()}
			refresher := NewRefresher(Params{
				Interval:        5 * time.Millisecond,
				StartDelay:      time.Millisecond,
				MarketHoursOnly: tt.marketHoursOnly,
				Hours:           NSEHours(time.UTC),
				Pause:           -1,
			}, prices, nil, zap.NewNop())
			refresher.Catalogue = []Instrument{fund("AXISBLUE", "Axis Bluechip Fund", "47.25")}
			refresher.Now = func() time.Time { return tt.now }

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
			defer cancel()

			err := refresher.Run(ctx)
			assert.ErrorIs(t, err, context.DeadlineExceeded)

			if tt.atLeast {
				assert.GreaterOrEqual(t, prices.upserts.Load(), tt.wantPasses)
			} else {
				assert.Equal(t, tt.wantPasses, prices.upserts.Load())
			}
		})
	}
}

func TestRefresher_RunStopsBeforeStartDelay(t *testing.T) {
	prices := &countingPrices{PriceRepository: memory.NewStore().Prices()}
	refresher := NewRefresher(Params{StartDelay: time.Hour}, prices, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, refresher.Run(ctx), context.Canceled)
	assert.Zero(t, prices.upserts.Load())
}
