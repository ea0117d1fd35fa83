package domain

import (
	"strings"

	"github.com/google/uuid"
)

// TradeOrder is a validated request to buy or sell whole units of an instrument
type TradeOrder struct {
	AccountID uuid.UUID
	Symbol    string
	Quantity  int64
}

// NormalizeSymbol trims and upper-cases a symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Validate checks the order before any domain logic runs and normalizes its symbol
func (o *TradeOrder) Validate() error {
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	o.Symbol = NormalizeSymbol(o.Symbol)
	if o.Symbol == "" {
		return ErrInvalidSymbol
	}
	if o.AccountID == uuid.Nil {
		return ErrAccountNotFound
	}
	return nil
}
