package valuation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"go.uber.org/zap"
)

// Position is one holding valued at the latest known price
type Position struct {
	Symbol        string
	Quantity      int64
	AvgCost       decimal.Decimal
	CurrentPrice  decimal.Decimal
	PriceKnown    bool
	InvestedValue decimal.Decimal
	CurrentValue  decimal.Decimal
	Gain          decimal.Decimal
	GainPercent   decimal.Decimal
}

// Portfolio is the read-only valuation of an account
type Portfolio struct {
	AccountID      uuid.UUID
	CashBalance    decimal.Decimal
	Positions      []Position
	InvestedValue  decimal.Decimal
	CurrentValue   decimal.Decimal
	Gain           decimal.Decimal
	GainPercent    decimal.Decimal
	PortfolioValue decimal.Decimal
}

// ValuationService values holdings against the price store
type ValuationService struct {
	AccountRepo domain.AccountRepository
	HoldingRepo domain.HoldingRepository
	PriceRepo   domain.PriceRepository
	Logger      *zap.Logger
}

// NewValuationService creates a new ValuationService instance
func NewValuationService(accountRepo domain.AccountRepository, holdingRepo domain.HoldingRepository, priceRepo domain.PriceRepository, logger *zap.Logger) *ValuationService {
	return &ValuationService{
		AccountRepo: accountRepo,
		HoldingRepo: holdingRepo,
		PriceRepo:   priceRepo,
		Logger:      logger,
	}
}

// GetPortfolio values every holding of the account.
// A holding without a price contributes zero current value and is logged as a data gap.
func (s *ValuationService) GetPortfolio(ctx context.Context, accountID uuid.UUID) (*Portfolio, error) {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.HoldingRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	portfolio := &Portfolio{
		AccountID:     account.ID,
		CashBalance:   account.CashBalance,
		Positions:     make([]Position, 0, len(holdings)),
		InvestedValue: decimal.Zero,
		CurrentValue:  decimal.Zero,
	}

	for _, h := range holdings {
		price, known, err := s.lookupPrice(ctx, accountID, h.Symbol)
		if err != nil {
			return nil, err
		}

		position := Value(h, price, known)
		portfolio.Positions = append(portfolio.Positions, position)
		portfolio.InvestedValue = portfolio.InvestedValue.Add(position.InvestedValue)
		portfolio.CurrentValue = portfolio.CurrentValue.Add(position.CurrentValue)
	}

	portfolio.Gain = portfolio.CurrentValue.Sub(portfolio.InvestedValue)
	portfolio.GainPercent = domain.Percent(portfolio.Gain, portfolio.InvestedValue)
	portfolio.PortfolioValue = portfolio.CashBalance.Add(portfolio.CurrentValue)

	return portfolio, nil
}

// Value computes a single position. An unknown price values the position at zero.
func Value(h *domain.Holding, price decimal.Decimal, known bool) Position {
	quantity := decimal.NewFromInt(h.Quantity)
	invested := domain.RoundMoney(quantity.Mul(h.AvgCost))

	current := decimal.Zero
	if known {
		current = domain.RoundMoney(quantity.Mul(price))
	}
	gain := current.Sub(invested)

	return Position{
		Symbol:        h.Symbol,
		Quantity:      h.Quantity,
		AvgCost:       h.AvgCost,
		CurrentPrice:  price,
		PriceKnown:    known,
		InvestedValue: invested,
		CurrentValue:  current,
		Gain:          gain,
		GainPercent:   domain.Percent(gain, invested),
	}
}

func (s *ValuationService) lookupPrice(ctx context.Context, accountID uuid.UUID, symbol string) (decimal.Decimal, bool, error) {
	price, err := s.PriceRepo.Get(ctx, symbol)
	if err == nil {
		return price.CurrentPrice, true, nil
	}
	if !errors.Is(err, domain.ErrUnknownInstrument) {
		return decimal.Zero, false, err
	}

	s.Logger.Warn("no price for held instrument, valuing at zero",
		zap.String("account_id", accountID.String()),
		zap.String("symbol", symbol),
	)
	return decimal.Zero, false, nil
}
