package domain

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistItem is a symbol an account follows without holding it
type WatchlistItem struct {
	AccountID uuid.UUID
	Symbol    string
	CreatedAt time.Time
}
