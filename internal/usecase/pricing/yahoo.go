package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultYahooBaseURL is the Yahoo Finance chart endpoint; the ticker is appended
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// minimum accepted quote, anything at or below is treated as bad data
var minYahooPrice = decimal.NewFromInt(1)

// YahooSource fetches live quotes from the Yahoo Finance chart API
type YahooSource struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// NewYahooSource creates a YahooSource with a 10 second request timeout
func NewYahooSource() *YahooSource {
	return &YahooSource{
		Client:    &http.Client{Timeout: 10 * time.Second},
		BaseURL:   DefaultYahooBaseURL,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice decimal.NullDecimal `json:"regularMarketPrice"`
				PreviousClose      decimal.NullDecimal `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Quote implements Source.
// The regular market price is used, or the previous close when the market price is
// missing. Quotes at or below 1 are rejected with ErrNoQuote.
func (s *YahooSource) Quote(ctx context.Context, instrument Instrument) (Quote, error) {
	addr := s.BaseURL + url.PathEscape(instrument.Ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to build request for %s: %w", instrument.Ticker, err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to fetch quote for %s: %w", instrument.Ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	var chart yahooChart
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return Quote{}, fmt.Errorf("failed to decode quote for %s: %w", instrument.Ticker, err)
	}
	if len(chart.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("%s: %w", instrument.Ticker, ErrNoQuote)
	}

	meta := chart.Chart.Result[0].Meta
	price := meta.RegularMarketPrice.Decimal
	if !meta.RegularMarketPrice.Valid || price.IsZero() {
		price = meta.PreviousClose.Decimal
	}
	if price.LessThanOrEqual(minYahooPrice) {
		return Quote{}, fmt.Errorf("%s: %w", instrument.Ticker, ErrNoQuote)
	}

	change := decimal.Zero
	if meta.PreviousClose.Valid && meta.PreviousClose.Decimal.IsPositive() {
		change = price.Sub(meta.PreviousClose.Decimal)
	}

	return newQuote(price, change), nil
}
