package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding is an account's open position in one instrument.
// A persisted holding always has Quantity > 0; AvgCost is the volume-weighted
// average price paid across buys and is never changed by a sell.
type Holding struct {
	AccountID uuid.UUID
	Symbol    string
	Quantity  int64
	AvgCost   decimal.Decimal
	UpdatedAt time.Time
}

// HoldingKey identifies a holding
type HoldingKey struct {
	AccountID uuid.UUID
	Symbol    string
}

// Key returns the identity of the holding
func (h *Holding) Key() HoldingKey {
	return HoldingKey{AccountID: h.AccountID, Symbol: h.Symbol}
}

// InvestedValue is quantity × average cost
func (h *Holding) InvestedValue() decimal.Decimal {
	return RoundMoney(h.AvgCost.Mul(decimal.NewFromInt(h.Quantity)))
}

// Validate ensures the holding adheres to domain rules
func (h *Holding) Validate() error {
	if h.AccountID == uuid.Nil {
		return errors.New("holding must reference an account")
	}
	if h.Symbol == "" {
		return ErrInvalidSymbol
	}
	if h.Quantity <= 0 {
		return errors.New("holding quantity must be positive")
	}
	if !h.AvgCost.IsPositive() {
		return errors.New("holding average cost must be positive")
	}
	return nil
}

// UpsertOnBuy returns the position after buying quantity units at price.
// A nil existing holding opens a new position at that price; otherwise the average
// cost becomes (q0*c0 + quantity*price) / (q0+quantity), divided at full precision
// and rounded to MoneyPlaces. existing is not modified.
func UpsertOnBuy(existing *Holding, accountID uuid.UUID, symbol string, quantity int64, price decimal.Decimal, now time.Time) (*Holding, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return nil, errors.New("buy price must be positive")
	}

	cost := RoundMoney(price.Mul(decimal.NewFromInt(quantity)))

	if existing == nil {
		return &Holding{
			AccountID: accountID,
			Symbol:    symbol,
			Quantity:  quantity,
			AvgCost:   RoundMoney(price),
			UpdatedAt: now,
		}, nil
	}

	newQuantity := existing.Quantity + quantity
	totalCost := existing.AvgCost.Mul(decimal.NewFromInt(existing.Quantity)).Add(cost)

	return &Holding{
		AccountID: existing.AccountID,
		Symbol:    existing.Symbol,
		Quantity:  newQuantity,
		AvgCost:   RoundMoney(totalCost.Div(decimal.NewFromInt(newQuantity))),
		UpdatedAt: now,
	}, nil
}

// ReduceOnSell returns the position after selling quantity units.
// It returns nil when the sale closes the position. The average cost is carried
// over unchanged. existing is not modified.
func ReduceOnSell(existing *Holding, quantity int64, now time.Time) (*Holding, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if existing == nil || quantity > existing.Quantity {
		return nil, ErrInsufficientHoldings
	}

	remaining := existing.Quantity - quantity
	if remaining == 0 {
		return nil, nil
	}

	reduced := *existing
	reduced.Quantity = remaining
	reduced.UpdatedAt = now
	return &reduced, nil
}

// ReplayHoldings rebuilds holdings from a transaction log.
// Transactions are applied in timestamp order; ties keep their input order.
func ReplayHoldings(transactions []*Transaction) (map[HoldingKey]*Holding, error) {
	ordered := make([]*Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	holdings := make(map[HoldingKey]*Holding)
	for _, tx := range ordered {
		key := HoldingKey{AccountID: tx.AccountID, Symbol: tx.Symbol}

		var (
			next *Holding
			err  error
		)
		switch tx.Side {
		case SideBuy:
			next, err = UpsertOnBuy(holdings[key], tx.AccountID, tx.Symbol, tx.Quantity, tx.PricePerUnit, tx.Timestamp)
		case SideSell:
			next, err = ReduceOnSell(holdings[key], tx.Quantity, tx.Timestamp)
		default:
			err = errors.New("transaction side must be BUY or SELL")
		}
		if err != nil {
			return nil, err
		}

		if next == nil {
			delete(holdings, key)
			continue
		}
		holdings[key] = next
	}

	return holdings, nil
}
