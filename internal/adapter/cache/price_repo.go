package cache

import (
	"context"

	"github.com/simaogato/tradesim-backend/internal/domain"
)

// priceRepository serves price reads from the cache and invalidates on write.
// Reads may be up to one TTL stale; the trade engine reads prices through its
// unit of work instead.
type priceRepository struct {
	next  domain.PriceRepository
	cache *Cache
}

// NewPriceRepository wraps next with a read-through cache
func NewPriceRepository(next domain.PriceRepository, cache *Cache) domain.PriceRepository {
	return &priceRepository{next: next, cache: cache}
}

func priceKey(symbol string) string { return "price:" + symbol }

// Get retrieves the latest price for a symbol
func (r *priceRepository) Get(ctx context.Context, symbol string) (*domain.InstrumentPrice, error) {
	if v, ok := r.cache.Get(priceKey(symbol)); ok {
		if cached, ok := v.(domain.InstrumentPrice); ok {
			return &cached, nil
		}
	}

	price, err := r.next.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}

	r.cache.Set(priceKey(symbol), *price)
	return price, nil
}

// Upsert writes through and evicts the cached entry
func (r *priceRepository) Upsert(ctx context.Context, price *domain.InstrumentPrice) error {
	if err := r.next.Upsert(ctx, price); err != nil {
		return err
	}
	r.cache.Del(priceKey(price.Symbol))
	return nil
}

// List is not cached
func (r *priceRepository) List(ctx context.Context) ([]*domain.InstrumentPrice, error) {
	return r.next.List(ctx)
}

// Search is not cached
func (r *priceRepository) Search(ctx context.Context, query string, limit int) ([]*domain.InstrumentPrice, error) {
	return r.next.Search(ctx, query, limit)
}
