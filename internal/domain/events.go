package domain

import "context"

// DefaultCurrency is the ISO code amounts are reported in when none is configured
const DefaultCurrency = "INR"

// TradePublisher announces executed trades to downstream consumers.
// Publication happens after commit and never affects the trade outcome.
type TradePublisher interface {
	PublishTrade(ctx context.Context, tx *Transaction) error
}
