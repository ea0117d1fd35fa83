package tradesimv1

import "google.golang.org/protobuf/types/known/timestamppb"

// Money fields are decimal strings with two places.

type Account struct {
	Id          string                 `json:"id,omitempty"`
	Name        string                 `json:"name,omitempty"`
	CashBalance string                 `json:"cash_balance,omitempty"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at,omitempty"`
}

type Transaction struct {
	Id           string                 `json:"id,omitempty"`
	AccountId    string                 `json:"account_id,omitempty"`
	Symbol       string                 `json:"symbol,omitempty"`
	AssetName    string                 `json:"asset_name,omitempty"`
	Side         string                 `json:"side,omitempty"`
	Quantity     int64                  `json:"quantity,omitempty"`
	PricePerUnit string                 `json:"price_per_unit,omitempty"`
	TotalAmount  string                 `json:"total_amount,omitempty"`
	ExecutedAt   *timestamppb.Timestamp `json:"executed_at,omitempty"`
}

type Holding struct {
	Symbol        string `json:"symbol,omitempty"`
	Quantity      int64  `json:"quantity,omitempty"`
	AvgCost       string `json:"avg_cost,omitempty"`
	InvestedValue string `json:"invested_value,omitempty"`
}

type InstrumentPrice struct {
	Symbol             string                 `json:"symbol,omitempty"`
	Name               string                 `json:"name,omitempty"`
	AssetType          string                 `json:"asset_type,omitempty"`
	CurrentPrice       string                 `json:"current_price,omitempty"`
	DailyChange        string                 `json:"daily_change,omitempty"`
	DailyChangePercent string                 `json:"daily_change_percent,omitempty"`
	LastUpdated        *timestamppb.Timestamp `json:"last_updated,omitempty"`
}

type Position struct {
	Symbol        string `json:"symbol,omitempty"`
	Quantity      int64  `json:"quantity,omitempty"`
	AvgCost       string `json:"avg_cost,omitempty"`
	CurrentPrice  string `json:"current_price,omitempty"`
	PriceKnown    bool   `json:"price_known,omitempty"`
	InvestedValue string `json:"invested_value,omitempty"`
	CurrentValue  string `json:"current_value,omitempty"`
	Gain          string `json:"gain,omitempty"`
	GainPercent   string `json:"gain_percent,omitempty"`
}

type LeaderboardEntry struct {
	Rank           int32  `json:"rank,omitempty"`
	AccountId      string `json:"account_id,omitempty"`
	Name           string `json:"name,omitempty"`
	CashBalance    string `json:"cash_balance,omitempty"`
	HoldingsValue  string `json:"holdings_value,omitempty"`
	PortfolioValue string `json:"portfolio_value,omitempty"`
	TotalGain      string `json:"total_gain,omitempty"`
	GainPercent    string `json:"gain_percent,omitempty"`
	Badge          string `json:"badge,omitempty"`
}

type WatchlistItem struct {
	Symbol  string                 `json:"symbol,omitempty"`
	AddedAt *timestamppb.Timestamp `json:"added_at,omitempty"`
	// Price is nil until the symbol has been priced
	Price *InstrumentPrice `json:"price,omitempty"`
}

type OpenAccountRequest struct {
	Name string `json:"name,omitempty"`
}

type OpenAccountResponse struct {
	Account *Account `json:"account,omitempty"`
}

type GetAccountRequest struct {
	AccountId string `json:"account_id,omitempty"`
}

type GetAccountResponse struct {
	Account *Account `json:"account,omitempty"`
}

// TradeRequest is shared by Buy and Sell
type TradeRequest struct {
	AccountId string `json:"account_id,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Quantity  int64  `json:"quantity,omitempty"`
}

type TradeResponse struct {
	Transaction *Transaction `json:"transaction,omitempty"`
	// Holding is nil when a sell closed the position
	Holding     *Holding `json:"holding,omitempty"`
	CashBalance string   `json:"cash_balance,omitempty"`
}

type GetPortfolioRequest struct {
	AccountId string `json:"account_id,omitempty"`
}

type GetPortfolioResponse struct {
	AccountId      string      `json:"account_id,omitempty"`
	CashBalance    string      `json:"cash_balance,omitempty"`
	Positions      []*Position `json:"positions,omitempty"`
	InvestedValue  string      `json:"invested_value,omitempty"`
	CurrentValue   string      `json:"current_value,omitempty"`
	Gain           string      `json:"gain,omitempty"`
	GainPercent    string      `json:"gain_percent,omitempty"`
	PortfolioValue string      `json:"portfolio_value,omitempty"`
}

type GetPriceRequest struct {
	Symbol string `json:"symbol,omitempty"`
}

type GetPriceResponse struct {
	Price *InstrumentPrice `json:"price,omitempty"`
}

type ListPricesRequest struct{}

type ListPricesResponse struct {
	Prices []*InstrumentPrice `json:"prices,omitempty"`
}

type SearchInstrumentsRequest struct {
	Query string `json:"query,omitempty"`
	Limit int32  `json:"limit,omitempty"`
}

type SearchInstrumentsResponse struct {
	Prices []*InstrumentPrice `json:"prices,omitempty"`
}

type ListTransactionsRequest struct {
	AccountId string `json:"account_id,omitempty"`
	Limit     int32  `json:"limit,omitempty"`
	Offset    int32  `json:"offset,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions,omitempty"`
	TotalCount   int32          `json:"total_count,omitempty"`
}

type GetLeaderboardRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type GetLeaderboardResponse struct {
	Entries []*LeaderboardEntry `json:"entries,omitempty"`
}

// WatchlistRequest is shared by AddToWatchlist and RemoveFromWatchlist
type WatchlistRequest struct {
	AccountId string `json:"account_id,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
}

type WatchlistResponse struct{}

type ListWatchlistRequest struct {
	AccountId string `json:"account_id,omitempty"`
}

type ListWatchlistResponse struct {
	Items []*WatchlistItem `json:"items,omitempty"`
}
