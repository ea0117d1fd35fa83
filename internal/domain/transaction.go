package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side represents the direction of a trade
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Transaction is an immutable record of an executed trade.
// The total amount is not stored: it is always derived from Quantity and PricePerUnit.
type Transaction struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Symbol       string
	AssetName    string
	Side         Side
	Quantity     int64
	PricePerUnit decimal.Decimal
	Timestamp    time.Time
}

// NewTransaction records an executed trade at the given price
func NewTransaction(accountID uuid.UUID, symbol string, side Side, quantity int64, price decimal.Decimal, now time.Time) (*Transaction, error) {
	tx := &Transaction{
		ID:           uuid.New(),
		AccountID:    accountID,
		Symbol:       symbol,
		Side:         side,
		Quantity:     quantity,
		PricePerUnit: RoundMoney(price),
		Timestamp:    now,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// TotalAmount returns quantity × price per unit, rounded to MoneyPlaces
func (t *Transaction) TotalAmount() decimal.Decimal {
	return RoundMoney(t.PricePerUnit.Mul(decimal.NewFromInt(t.Quantity)))
}

// CashDelta is the signed effect of the trade on the account's cash balance
func (t *Transaction) CashDelta() decimal.Decimal {
	if t.Side == SideBuy {
		return t.TotalAmount().Neg()
	}
	return t.TotalAmount()
}

// Validate ensures the transaction adheres to domain rules
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return errors.New("transaction must reference an account")
	}
	if t.Symbol == "" {
		return ErrInvalidSymbol
	}
	if t.Side != SideBuy && t.Side != SideSell {
		return errors.New("transaction side must be BUY or SELL")
	}
	if t.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !t.PricePerUnit.IsPositive() {
		return errors.New("price per unit must be positive")
	}
	return nil
}
