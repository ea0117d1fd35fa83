package instrument

import (
	"context"
	"strings"

	"github.com/simaogato/tradesim-backend/internal/domain"
)

const (
	// DefaultSearchLimit is the number of matches returned when the caller asks for none
	DefaultSearchLimit = 20
	// MaxSearchLimit caps a single search
	MaxSearchLimit = 100
)

// InstrumentService answers lookups over the price store
type InstrumentService struct {
	PriceRepo domain.PriceRepository
}

// NewInstrumentService creates a new InstrumentService instance
func NewInstrumentService(priceRepo domain.PriceRepository) *InstrumentService {
	return &InstrumentService{PriceRepo: priceRepo}
}

// Search returns instruments whose symbol or name contains query, ignoring case,
// ordered by asset type then symbol. An empty query matches every instrument.
func (s *InstrumentService) Search(ctx context.Context, query string, limit int) ([]*domain.InstrumentPrice, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	return s.PriceRepo.Search(ctx, strings.TrimSpace(query), limit)
}
