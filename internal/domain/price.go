package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType classifies an instrument
type AssetType string

const (
	AssetTypeStock      AssetType = "Stock"
	AssetTypeETF        AssetType = "ETF"
	AssetTypeMutualFund AssetType = "Mutual Fund"
)

// InstrumentPrice is the latest known quote for a symbol.
// It is replaced wholesale by the price refresh job and read-only everywhere else.
type InstrumentPrice struct {
	Symbol             string
	Name               string
	AssetType          AssetType
	CurrentPrice       decimal.Decimal
	DailyChange        decimal.Decimal
	DailyChangePercent decimal.Decimal
	LastUpdated        time.Time
}

// Validate ensures the price adheres to domain rules
func (p *InstrumentPrice) Validate() error {
	if p.Symbol == "" {
		return ErrInvalidSymbol
	}
	if !RoundMoney(p.CurrentPrice).IsPositive() {
		return errors.New("current price must be at least 0.01")
	}
	return nil
}

// TradablePrice returns the price a trade executes at, rounded to MoneyPlaces.
// A price that rounds to zero cannot be traded and is reported as ErrUnknownInstrument.
func (p *InstrumentPrice) TradablePrice() (decimal.Decimal, error) {
	price := RoundMoney(p.CurrentPrice)
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s has no tradable price", ErrUnknownInstrument, p.Symbol)
	}
	return price, nil
}
