package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a trader's cash ledger entry.
// CashBalance is never negative and is only changed through Debit and Credit.
type Account struct {
	ID          uuid.UUID
	Name        string
	CashBalance decimal.Decimal
	CreatedAt   time.Time
}

// NewAccount opens an account funded with the starting balance
func NewAccount(name string, startingBalance decimal.Decimal, now time.Time) (*Account, error) {
	account := &Account{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		CashBalance: RoundMoney(startingBalance),
		CreatedAt:   now,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}
	if a.CashBalance.IsNegative() {
		return errors.New("cash balance cannot be negative")
	}
	return nil
}

// Debit removes amount from the cash balance.
// It fails with ErrInsufficientFunds and leaves the balance untouched when the
// balance does not cover the amount.
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.New("debit amount cannot be negative")
	}
	if a.CashBalance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.CashBalance = RoundMoney(a.CashBalance.Sub(amount))
	return nil
}

// Credit adds amount to the cash balance
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.New("credit amount cannot be negative")
	}
	a.CashBalance = RoundMoney(a.CashBalance.Add(amount))
	return nil
}
