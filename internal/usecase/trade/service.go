package trade

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"go.uber.org/zap"
)

const (
	// DefaultTransactionLimit is the page size used when the caller asks for none
	DefaultTransactionLimit = 50
	// MaxTransactionLimit caps a single page of transactions
	MaxTransactionLimit = 500
	// DefaultPublishTimeout bounds how long one trade event may take to publish
	DefaultPublishTimeout = 5 * time.Second
)

// Result is the outcome of an executed trade.
// Holding is nil when a sell closed the position.
type Result struct {
	Transaction *domain.Transaction
	Holding     *domain.Holding
	CashBalance decimal.Decimal
}

// TradeService executes buy and sell orders as single all-or-nothing units
type TradeService struct {
	UnitOfWork      domain.UnitOfWork
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	Publisher       domain.TradePublisher
	Logger          *zap.Logger
	Currency        string
	PublishTimeout  time.Duration
	Now             func() time.Time

	publishing sync.WaitGroup
}

// NewTradeService creates a new TradeService instance
func NewTradeService(
	uow domain.UnitOfWork,
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	publisher domain.TradePublisher,
	logger *zap.Logger,
) *TradeService {
	return &TradeService{
		UnitOfWork:      uow,
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		Publisher:       publisher,
		Logger:          logger,
		Currency:        domain.DefaultCurrency,
		PublishTimeout:  DefaultPublishTimeout,
		Now:             time.Now,
	}
}

// ExecuteBuy buys order.Quantity units at the current price.
// Cash is debited, the holding's average cost is recomputed and a BUY transaction is
// appended in one unit of work; on any error none of it is persisted.
func (s *TradeService) ExecuteBuy(ctx context.Context, order domain.TradeOrder) (*Result, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	var result *Result
	err := s.UnitOfWork.WithinAccount(ctx, order.AccountID, func(ctx context.Context, store domain.TradeStore) error {
		price, err := store.Prices().Get(ctx, order.Symbol)
		if err != nil {
			return err
		}
		pricePerUnit, err := price.TradablePrice()
		if err != nil {
			return err
		}

		now := s.Now().UTC()
		tx, err := domain.NewTransaction(order.AccountID, order.Symbol, domain.SideBuy, order.Quantity, pricePerUnit, now)
		if err != nil {
			return err
		}
		tx.AssetName = price.Name
		cost := tx.TotalAmount()

		account, err := store.Accounts().GetByID(ctx, order.AccountID)
		if err != nil {
			return err
		}
		if err := account.Debit(cost); err != nil {
			return err
		}

		existing, err := s.currentHolding(ctx, store, order.AccountID, order.Symbol)
		if err != nil {
			return err
		}
		holding, err := domain.UpsertOnBuy(existing, order.AccountID, order.Symbol, order.Quantity, tx.PricePerUnit, now)
		if err != nil {
			return err
		}

		if err := store.Accounts().UpdateBalance(ctx, account); err != nil {
			return err
		}
		if err := store.Holdings().Save(ctx, holding); err != nil {
			return err
		}
		if err := store.Transactions().Append(ctx, tx); err != nil {
			return err
		}

		result = &Result{Transaction: tx, Holding: holding, CashBalance: account.CashBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, result)
	return result, nil
}

// ExecuteSell sells order.Quantity units of an existing holding at the current price.
// The average cost of the remaining units is left unchanged and the holding is removed
// when its quantity reaches zero.
func (s *TradeService) ExecuteSell(ctx context.Context, order domain.TradeOrder) (*Result, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	var result *Result
	err := s.UnitOfWork.WithinAccount(ctx, order.AccountID, func(ctx context.Context, store domain.TradeStore) error {
		existing, err := s.currentHolding(ctx, store, order.AccountID, order.Symbol)
		if err != nil {
			return err
		}
		if existing == nil || order.Quantity > existing.Quantity {
			return domain.ErrInsufficientHoldings
		}

		price, err := store.Prices().Get(ctx, order.Symbol)
		if err != nil {
			return err
		}
		pricePerUnit, err := price.TradablePrice()
		if err != nil {
			return err
		}

		now := s.Now().UTC()
		tx, err := domain.NewTransaction(order.AccountID, order.Symbol, domain.SideSell, order.Quantity, pricePerUnit, now)
		if err != nil {
			return err
		}
		tx.AssetName = price.Name

		account, err := store.Accounts().GetByID(ctx, order.AccountID)
		if err != nil {
			return err
		}
		if err := account.Credit(tx.TotalAmount()); err != nil {
			return err
		}

		holding, err := domain.ReduceOnSell(existing, order.Quantity, now)
		if err != nil {
			return err
		}

		if err := store.Accounts().UpdateBalance(ctx, account); err != nil {
			return err
		}
		if holding == nil {
			err = store.Holdings().Delete(ctx, order.AccountID, order.Symbol)
		} else {
			err = store.Holdings().Save(ctx, holding)
		}
		if err != nil {
			return err
		}
		if err := store.Transactions().Append(ctx, tx); err != nil {
			return err
		}

		result = &Result{Transaction: tx, Holding: holding, CashBalance: account.CashBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, result)
	return result, nil
}

// ListTransactions returns a page of the account's transactions, newest first
func (s *TradeService) ListTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.TransactionRepo.ListByAccount(ctx, accountID, limit, offset)
}

// currentHolding returns nil without error when the account holds none of the symbol
func (s *TradeService) currentHolding(ctx context.Context, store domain.TradeStore, accountID uuid.UUID, symbol string) (*domain.Holding, error) {
	holding, err := store.Holdings().Get(ctx, accountID, symbol)
	if errors.Is(err, domain.ErrHoldingNotFound) {
		return nil, nil
	}
	return holding, err
}

// Wait blocks until every trade event handed to the publisher has been sent or has failed
func (s *TradeService) Wait() {
	s.publishing.Wait()
}

// afterCommit logs the trade and hands its event to the publisher in the background.
// The caller gets its result without waiting on the broker.
func (s *TradeService) afterCommit(ctx context.Context, result *Result) {
	tx := result.Transaction
	s.Logger.Info("trade executed",
		zap.String("account_id", tx.AccountID.String()),
		zap.String("side", string(tx.Side)),
		zap.String("symbol", tx.Symbol),
		zap.Int64("quantity", tx.Quantity),
		zap.String("price", domain.FormatAmount(tx.PricePerUnit, s.Currency)),
		zap.String("total", domain.FormatAmount(tx.TotalAmount(), s.Currency)),
		zap.String("cash_balance", domain.FormatAmount(result.CashBalance, s.Currency)),
	)

	if s.Publisher == nil {
		return
	}

	// The event outlives the request that produced it
	publishCtx := context.WithoutCancel(ctx)
	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()
		s.publish(publishCtx, tx)
	}()
}

func (s *TradeService) publish(ctx context.Context, tx *domain.Transaction) {
	timeout := s.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Publisher.PublishTrade(ctx, tx); err != nil {
		s.Logger.Warn("failed to publish trade event",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err),
		)
	}
}
