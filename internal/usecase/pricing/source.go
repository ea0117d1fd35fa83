package pricing

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// ErrNoQuote is returned by a source that has no usable price for an instrument
var ErrNoQuote = errors.New("no quote available")

// Quote is a price observation with its change since the previous close
type Quote struct {
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
}

// Source produces quotes for instruments
type Source interface {
	Quote(ctx context.Context, instrument Instrument) (Quote, error)
}

func newQuote(price, change decimal.Decimal) Quote {
	previous := price.Sub(change)
	return Quote{
		Price:         domain.RoundMoney(price),
		Change:        domain.RoundMoney(change),
		ChangePercent: domain.Percent(change, previous),
	}
}

// NAVSource quotes mutual funds at their static NAV moved by up to ±1
type NAVSource struct {
	// Rand returns a float in [0, 1). Defaults to math/rand/v2.
	Rand func() float64
}

// Quote implements Source
func (s NAVSource) Quote(ctx context.Context, instrument Instrument) (Quote, error) {
	if !instrument.BasePrice.IsPositive() {
		return Quote{}, ErrNoQuote
	}

	variation := decimal.NewFromFloat((random(s.Rand) - 0.5) * 2)
	price := instrument.BasePrice.Add(variation)
	if !price.IsPositive() {
		price = instrument.BasePrice
		variation = decimal.Zero
	}

	return Quote{
		Price:         domain.RoundMoney(price),
		Change:        domain.RoundMoney(variation),
		ChangePercent: domain.Percent(variation, instrument.BasePrice),
	}, nil
}

// FallbackSource quotes an instrument at its base price, or a random price between
// 100 and 1100 when it has none, with a simulated daily change of up to ±10
type FallbackSource struct {
	// Rand returns a float in [0, 1). Defaults to math/rand/v2.
	Rand func() float64
}

// Quote implements Source
func (s FallbackSource) Quote(ctx context.Context, instrument Instrument) (Quote, error) {
	base := instrument.BasePrice
	if !base.IsPositive() {
		base = decimal.NewFromFloat(random(s.Rand)*1000 + 100)
	}
	base = domain.RoundMoney(base)

	change := domain.RoundMoney(decimal.NewFromFloat((random(s.Rand) - 0.5) * 20))

	return Quote{
		Price:         base,
		Change:        change,
		ChangePercent: domain.Percent(change, base),
	}, nil
}

func random(fn func() float64) float64 {
	if fn != nil {
		return fn()
	}
	return rand.Float64()
}
