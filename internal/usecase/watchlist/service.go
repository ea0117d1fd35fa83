package watchlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// Item is a watched symbol joined with its latest price.
// Price is nil when the symbol has no price yet.
type Item struct {
	Symbol  string
	AddedAt time.Time
	Price   *domain.InstrumentPrice
}

// WatchlistService manages the symbols an account follows
type WatchlistService struct {
	WatchlistRepo domain.WatchlistRepository
	PriceRepo     domain.PriceRepository
}

// NewWatchlistService creates a new WatchlistService instance
func NewWatchlistService(watchlistRepo domain.WatchlistRepository, priceRepo domain.PriceRepository) *WatchlistService {
	return &WatchlistService{
		WatchlistRepo: watchlistRepo,
		PriceRepo:     priceRepo,
	}
}

// Add puts a priced symbol on the account's watchlist
func (s *WatchlistService) Add(ctx context.Context, accountID uuid.UUID, symbol string) error {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return domain.ErrInvalidSymbol
	}

	if _, err := s.PriceRepo.Get(ctx, symbol); err != nil {
		return err
	}

	return s.WatchlistRepo.Add(ctx, &domain.WatchlistItem{
		AccountID: accountID,
		Symbol:    symbol,
		CreatedAt: time.Now().UTC(),
	})
}

// Remove takes a symbol off the account's watchlist
func (s *WatchlistService) Remove(ctx context.Context, accountID uuid.UUID, symbol string) error {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return domain.ErrInvalidSymbol
	}
	return s.WatchlistRepo.Remove(ctx, accountID, symbol)
}

// List returns the account's watchlist, newest first
func (s *WatchlistService) List(ctx context.Context, accountID uuid.UUID) ([]Item, error) {
	watched, err := s.WatchlistRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(watched))
	for _, w := range watched {
		item := Item{Symbol: w.Symbol, AddedAt: w.CreatedAt}

		price, err := s.PriceRepo.Get(ctx, w.Symbol)
		switch {
		case err == nil:
			item.Price = price
		case !errors.Is(err, domain.ErrUnknownInstrument):
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
