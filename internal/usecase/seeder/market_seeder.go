package seeder

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"github.com/simaogato/tradesim-backend/internal/usecase/pricing"
	"go.uber.org/zap"
)

// MarketSeeder makes sure every catalogue instrument has a price before the
// first refresh, so trading works right after startup
type MarketSeeder struct {
	repo      domain.PriceRepository
	catalogue []pricing.Instrument
	logger    *zap.Logger
	now       func() time.Time
}

// NewMarketSeeder creates a new MarketSeeder instance
func NewMarketSeeder(repo domain.PriceRepository, catalogue []pricing.Instrument, logger *zap.Logger) *MarketSeeder {
	return &MarketSeeder{
		repo:      repo,
		catalogue: catalogue,
		logger:    logger,
		now:       time.Now,
	}
}

// Seed inserts the base price of every instrument that has no price yet.
// Existing prices are left alone; instruments without a base price are skipped.
// It returns the number of prices inserted.
func (s *MarketSeeder) Seed(ctx context.Context) (int, error) {
	seeded := 0
	for _, instrument := range s.catalogue {
		_, err := s.repo.Get(ctx, instrument.Symbol)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUnknownInstrument) {
			return seeded, err
		}

		if !instrument.BasePrice.IsPositive() {
			s.logger.Debug("no base price, leaving unpriced until refresh",
				zap.String("symbol", instrument.Symbol))
			continue
		}

		price := &domain.InstrumentPrice{
			Symbol:             instrument.Symbol,
			Name:               instrument.Name,
			AssetType:          instrument.AssetType,
			CurrentPrice:       domain.RoundMoney(instrument.BasePrice),
			DailyChange:        decimal.Zero,
			DailyChangePercent: decimal.Zero,
			LastUpdated:        s.now().UTC(),
		}

		if err := price.Validate(); err != nil {
			return seeded, err
		}

		if err := s.repo.Upsert(ctx, price); err != nil {
			return seeded, err
		}
		seeded++
	}

	return seeded, nil
}
