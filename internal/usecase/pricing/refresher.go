package pricing

import (
	"context"
	"time"

	"github.com/simaogato/tradesim-backend/internal/domain"
	"go.uber.org/zap"
)

// Params configures a Refresher
type Params struct {
	// Interval between scheduled refreshes.
	//
	// Defaults to 15 minutes.
	Interval time.Duration

	// StartDelay before the first refresh, which runs regardless of market hours.
	//
	// Defaults to 5 seconds.
	StartDelay time.Duration

	// MarketHoursOnly skips scheduled refreshes outside Hours
	MarketHoursOnly bool
	Hours           MarketHours

	// Pause between two instruments, to stay under the source's rate limit.
	//
	// Defaults to 200 milliseconds. Negative disables the pause.
	Pause time.Duration
}

// Refresher keeps the price store up to date from market data sources.
// It is the only writer of instrument prices.
type Refresher struct {
	p Params

	Prices    domain.PriceRepository
	Catalogue []Instrument
	// Primary quotes stocks and ETFs, Fallback is used when Primary fails
	Primary  Source
	Fallback Source
	// Funds quotes mutual funds
	Funds  Source
	Logger *zap.Logger
	Now    func() time.Time
}

// NewRefresher creates a Refresher over the default catalogue
func NewRefresher(p Params, prices domain.PriceRepository, primary Source, logger *zap.Logger) *Refresher {
	if p.Interval <= 0 {
		p.Interval = 15 * time.Minute
	}
	if p.StartDelay <= 0 {
		p.StartDelay = 5 * time.Second
	}
	if p.Pause == 0 {
		p.Pause = 200 * time.Millisecond
	}
	if p.Hours.Location == nil {
		p.Hours = NSEHours(time.UTC)
	}

	return &Refresher{
		p:         p,
		Prices:    prices,
		Catalogue: DefaultCatalogue(),
		Primary:   primary,
		Fallback:  FallbackSource{},
		Funds:     NAVSource{},
		Logger:    logger,
		Now:       time.Now,
	}
}

// Run refreshes once after the start delay and then on every interval until ctx is
// done. It returns ctx.Err().
func (r *Refresher) Run(ctx context.Context) error {
	delay := time.NewTimer(r.p.StartDelay)
	defer delay.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-delay.C:
	}

	r.Logger.Info("initial price refresh")
	r.RefreshOnce(ctx)

	ticker := time.NewTicker(r.p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if r.p.MarketHoursOnly && !r.p.Hours.IsOpen(r.Now()) {
				r.Logger.Debug("market closed, skipping price refresh")
				continue
			}
			r.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce quotes every instrument in the catalogue and upserts the result.
// Failures are logged per instrument and do not stop the pass. It returns the
// number of prices written.
func (r *Refresher) RefreshOnce(ctx context.Context) int {
	started := r.Now()
	updated := 0

	for i, instrument := range r.Catalogue {
		if i > 0 && !r.pause(ctx) {
			break
		}

		quote, err := r.quote(ctx, instrument)
		if err != nil {
			r.Logger.Error("failed to quote instrument",
				zap.String("symbol", instrument.Symbol),
				zap.Error(err),
			)
			continue
		}

		price := &domain.InstrumentPrice{
			Symbol:             instrument.Symbol,
			Name:               instrument.Name,
			AssetType:          instrument.AssetType,
			CurrentPrice:       quote.Price,
			DailyChange:        quote.Change,
			DailyChangePercent: quote.ChangePercent,
			LastUpdated:        r.Now().UTC(),
		}
		if err := r.Prices.Upsert(ctx, price); err != nil {
			r.Logger.Error("failed to store price",
				zap.String("symbol", instrument.Symbol),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	r.Logger.Info("price refresh completed",
		zap.Int("updated", updated),
		zap.Int("instruments", len(r.Catalogue)),
		zap.Duration("took", r.Now().Sub(started)),
	)
	return updated
}

func (r *Refresher) quote(ctx context.Context, instrument Instrument) (Quote, error) {
	if instrument.AssetType == domain.AssetTypeMutualFund {
		return r.Funds.Quote(ctx, instrument)
	}

	if r.Primary != nil {
		quote, err := r.Primary.Quote(ctx, instrument)
		if err == nil {
			return quote, nil
		}
		r.Logger.Warn("primary source failed, using fallback price",
			zap.String("symbol", instrument.Symbol),
			zap.Error(err),
		)
	}

	return r.Fallback.Quote(ctx, instrument)
}

// pause waits between instruments; it reports false when ctx ends first
func (r *Refresher) pause(ctx context.Context) bool {
	if r.p.Pause <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(r.p.Pause)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
