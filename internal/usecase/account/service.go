package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"go.uber.org/zap"
)

// AccountService opens and reads trading accounts
type AccountService struct {
	AccountRepo     domain.AccountRepository
	StartingBalance decimal.Decimal
	Logger          *zap.Logger
}

// NewAccountService creates a new AccountService instance
func NewAccountService(accountRepo domain.AccountRepository, startingBalance decimal.Decimal, logger *zap.Logger) *AccountService {
	return &AccountService{
		AccountRepo:     accountRepo,
		StartingBalance: startingBalance,
		Logger:          logger,
	}
}

// OpenAccount creates an account funded with the configured starting balance
func (s *AccountService) OpenAccount(ctx context.Context, name string) (*domain.Account, error) {
	account, err := domain.NewAccount(name, s.StartingBalance, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.Logger.Info("account opened",
		zap.String("account_id", account.ID.String()),
		zap.String("name", account.Name),
	)
	return account, nil
}

// GetAccount retrieves an account by its ID
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.AccountRepo.GetByID(ctx, id)
}
