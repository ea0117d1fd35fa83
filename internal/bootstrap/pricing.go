package bootstrap

import (
	"go.uber.org/zap"

	"github.com/simaogato/tradesim-backend/internal/config"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"github.com/simaogato/tradesim-backend/internal/usecase/pricing"
)

// NewRefresher builds the price refresh job described by cfg.
// PRICE_SOURCE=static refreshes from the catalogue's base prices only.
func NewRefresher(cfg config.Config, prices domain.PriceRepository, logger *zap.Logger) (*pricing.Refresher, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var primary pricing.Source
	if cfg.PriceSource == config.PriceSourceYahoo {
		primary = pricing.NewYahooSource()
	}

	params := pricing.Params{
		Interval:        cfg.PriceRefreshInterval,
		StartDelay:      cfg.PriceRefreshStartDelay,
		MarketHoursOnly: cfg.PriceMarketHoursOnly,
		Hours:           pricing.NSEHours(loc),
	}
	if primary == nil {
		// no remote rate limit to respect
		params.Pause = -1
	}
	return pricing.NewRefresher(params, prices, primary, logger.Named("pricing")), nil
}
