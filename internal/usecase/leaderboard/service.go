package leaderboard

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// Badge marks the top three entries
type Badge string

const (
	BadgeNone   Badge = ""
	BadgeGold   Badge = "Gold"
	BadgeSilver Badge = "Silver"
	BadgeBronze Badge = "Bronze"
)

// Entry is one ranked account
type Entry struct {
	Rank           int
	AccountID      uuid.UUID
	Name           string
	CashBalance    decimal.Decimal
	HoldingsValue  decimal.Decimal
	PortfolioValue decimal.Decimal
	TotalGain      decimal.Decimal
	GainPercent    decimal.Decimal
	Badge          Badge
}

// LeaderboardService ranks accounts by portfolio gain
type LeaderboardService struct {
	AccountRepo    domain.AccountRepository
	HoldingRepo    domain.HoldingRepository
	PriceRepo      domain.PriceRepository
	InitialBalance decimal.Decimal
}

// NewLeaderboardService creates a new LeaderboardService instance.
// Gains are measured against initialBalance for every account, not against each
// account's own starting balance.
func NewLeaderboardService(accountRepo domain.AccountRepository, holdingRepo domain.HoldingRepository, priceRepo domain.PriceRepository, initialBalance decimal.Decimal) *LeaderboardService {
	return &LeaderboardService{
		AccountRepo:    accountRepo,
		HoldingRepo:    holdingRepo,
		PriceRepo:      priceRepo,
		InitialBalance: initialBalance,
	}
}

// GetLeaderboard values every account and returns them ranked.
// limit <= 0 returns all entries.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]Entry, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	prices, err := s.PriceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]decimal.Decimal, len(prices))
	for _, p := range prices {
		latest[p.Symbol] = p.CurrentPrice
	}

	entries := make([]Entry, 0, len(accounts))
	for _, account := range accounts {
		holdings, err := s.HoldingRepo.ListByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		holdingsValue := decimal.Zero
		for _, h := range holdings {
			// missing price counts as zero
			holdingsValue = holdingsValue.Add(latest[h.Symbol].Mul(decimal.NewFromInt(h.Quantity)))
		}

		entries = append(entries, Score(account, domain.RoundMoney(holdingsValue), s.InitialBalance))
	}

	ranked := Rank(entries)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Score computes an unranked entry for one account
func Score(account *domain.Account, holdingsValue, initialBalance decimal.Decimal) Entry {
	portfolioValue := account.CashBalance.Add(holdingsValue)
	gain := portfolioValue.Sub(initialBalance)

	return Entry{
		AccountID:      account.ID,
		Name:           account.Name,
		CashBalance:    account.CashBalance,
		HoldingsValue:  holdingsValue,
		PortfolioValue: portfolioValue,
		TotalGain:      gain,
		GainPercent:    domain.Percent(gain, initialBalance),
	}
}

// Rank sorts entries by gain percent, highest first, assigns ranks from 1 and
// gives badges to the top three. Ties are ordered by name.
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].GainPercent.Cmp(ranked[j].GainPercent); c != 0 {
			return c > 0
		}
		return ranked[i].Name < ranked[j].Name
	})

	badges := []Badge{BadgeGold, BadgeSilver, BadgeBronze}
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Badge = BadgeNone
		if i < len(badges) {
			ranked[i].Badge = badges[i]
		}
	}
	return ranked
}
