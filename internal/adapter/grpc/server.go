package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	tradesimv1 "github.com/simaogato/tradesim-backend/internal/adapter/grpc/tradesim/v1"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"github.com/simaogato/tradesim-backend/internal/usecase/account"
	"github.com/simaogato/tradesim-backend/internal/usecase/instrument"
	"github.com/simaogato/tradesim-backend/internal/usecase/leaderboard"
	"github.com/simaogato/tradesim-backend/internal/usecase/trade"
	"github.com/simaogato/tradesim-backend/internal/usecase/valuation"
	"github.com/simaogato/tradesim-backend/internal/usecase/watchlist"
)

// Server implements the TradeSimService gRPC server
type Server struct {
	tradesimv1.UnimplementedTradeSimServiceServer

	AccountService     *account.AccountService
	TradeService       *trade.TradeService
	ValuationService   *valuation.ValuationService
	LeaderboardService *leaderboard.LeaderboardService
	WatchlistService   *watchlist.WatchlistService
	InstrumentService  *instrument.InstrumentService
	PriceRepo          domain.PriceRepository
}

// NewServer creates a new gRPC server instance
func NewServer(
	accountService *account.AccountService,
	tradeService *trade.TradeService,
	valuationService *valuation.ValuationService,
	leaderboardService *leaderboard.LeaderboardService,
	watchlistService *watchlist.WatchlistService,
	instrumentService *instrument.InstrumentService,
	priceRepo domain.PriceRepository,
) *Server {
	return &Server{
		AccountService:     accountService,
		TradeService:       tradeService,
		ValuationService:   valuationService,
		LeaderboardService: leaderboardService,
		WatchlistService:   watchlistService,
		InstrumentService:  instrumentService,
		PriceRepo:          priceRepo,
	}
}

// OpenAccount handles the OpenAccount RPC
func (s *Server) OpenAccount(ctx context.Context, req *tradesimv1.OpenAccountRequest) (*tradesimv1.OpenAccountResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, status.Error(codes.InvalidArgument, "name must not be empty")
	}

	acc, err := s.AccountService.OpenAccount(ctx, req.Name)
	if err != nil {
		return nil, mapError(err)
	}

	return &tradesimv1.OpenAccountResponse{Account: domainAccountToProto(acc)}, nil
}

// GetAccount handles the GetAccount RPC
func (s *Server) GetAccount(ctx context.Context, req *tradesimv1.GetAccountRequest) (*tradesimv1.GetAccountResponse, error) {
	accountID, err := uuid.Parse(req.AccountId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid account_id format: %v", err)
	}

	acc, err := s.AccountService.GetAccount(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	return &tradesimv1.GetAccountResponse{Account: domainAccountToProto(acc)}, nil
}

// Buy handles the Buy RPC
func (s *Server) Buy(ctx context.Context, req *tradesimv1.TradeRequest) (*tradesimv1.TradeResponse, error) {
	order, err := protoTradeToOrder(req)
	if err != nil {
		return nil, err
	}

	result, err := s.TradeService.ExecuteBuy(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}

	return tradeResultToProto(result), nil
}

// Sell handles the Sell RPC
func (s *Server) Sell(ctx context.Context, req *tradesimv1.TradeRequest) (*tradesimv1.TradeResponse, error) {
	order, err := protoTradeToOrder(req)
	if err != nil {
		return nil, err
	}

	result, err := s.TradeService.ExecuteSell(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}

	return tradeResultToProto(result), nil
}

// GetPortfolio handles the GetPortfolio RPC
func (s *Server) GetPortfolio(ctx context.Context, req *tradesimv1.GetPortfolioRequest) (*tradesimv1.GetPortfolioResponse, error) {
	accountID, err := uuid.Parse(req.AccountId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid account_id format: %v", err)
	}

	portfolio, err := s.ValuationService.GetPortfolio(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	positions := make([]*tradesimv1.Position, 0, len(portfolio.Positions))
	for _, p := range portfolio.Positions {
		positions = append(positions, &tradesimv1.Position{
			Symbol:        p.Symbol,
			Quantity:      p.Quantity,
			AvgCost:       money(p.AvgCost),
			CurrentPrice:  money(p.CurrentPrice),
			PriceKnown:    p.PriceKnown,
			InvestedValue: money(p.InvestedValue),
			CurrentValue:  money(p.CurrentValue),
			Gain:          money(p.Gain),
			GainPercent:   money(p.GainPercent),
		})
	}

	return &tradesimv1.GetPortfolioResponse{
		AccountId:      portfolio.AccountID.String(),
		CashBalance:    money(portfolio.CashBalance),
		Positions:      positions,
		InvestedValue:  money(portfolio.InvestedValue),
		CurrentValue:   money(portfolio.CurrentValue),
		Gain:           money(portfolio.Gain),
		GainPercent:    money(portfolio.GainPercent),
		PortfolioValue: money(portfolio.PortfolioValue),
	}, nil
}

// GetPrice handles the GetPrice RPC
func (s *Server) GetPrice(ctx context.Context, req *tradesimv1.GetPriceRequest) (*tradesimv1.GetPriceResponse, error) {
	symbol := domain.NormalizeSymbol(req.Symbol)
	if symbol == "" {
		return nil, mapError(domain.ErrInvalidSymbol)
	}

	price, err := s.PriceRepo.Get(ctx, symbol)
	if err != nil {
		return nil, mapError(err)
	}

	return &tradesimv1.GetPriceResponse{Price: domainPriceToProto(price)}, nil
}

// ListPrices handles the ListPrices RPC
func (s *Server) ListPrices(ctx context.Context, req *tradesimv1.ListPricesRequest) (*tradesimv1.ListPricesResponse, error) {
	prices, err := s.PriceRepo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	protoPrices := make([]*tradesimv1.InstrumentPrice, 0, len(prices))
	for _, p := range prices {
		protoPrices = append(protoPrices, domainPriceToProto(p))
	}

	return &tradesimv1.ListPricesResponse{Prices: protoPrices}, nil
}

// SearchInstruments handles the SearchInstruments RPC
func (s *Server) SearchInstruments(ctx context.Context, req *tradesimv1.SearchInstrumentsRequest) (*tradesimv1.SearchInstrumentsResponse, error) {
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	prices, err := s.InstrumentService.Search(ctx, req.Query, int(req.Limit))
	if err != nil {
		return nil, mapError(err)
	}

	protoPrices := make([]*tradesimv1.InstrumentPrice, 0, len(prices))
	for _, p := range prices {
		protoPrices = append(protoPrices, domainPriceToProto(p))
	}

	return &tradesimv1.SearchInstrumentsResponse{Prices: protoPrices}, nil
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, req *tradesimv1.ListTransactionsRequest) (*tradesimv1.ListTransactionsResponse, error) {
	accountID, err := uuid.Parse(req.AccountId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid account_id format: %v", err)
	}

	// Zero limit selects the default page size
	if req.Limit < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "limit must not be negative")
	}
	if req.Offset < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "offset must be non-negative")
	}

	transactions, err := s.TradeService.ListTransactions(ctx, accountID, int(req.Limit), int(req.Offset))
	if err != nil {
		return nil, mapError(err)
	}

	// Get total count for accurate pagination
	totalCount, err := s.TradeService.TransactionRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	protoTransactions := make([]*tradesimv1.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		protoTransactions = append(protoTransactions, domainTransactionToProto(tx))
	}

	return &tradesimv1.ListTransactionsResponse{
		Transactions: protoTransactions,
		TotalCount:   int32(totalCount),
	}, nil
}

// GetLeaderboard handles the GetLeaderboard RPC
func (s *Server) GetLeaderboard(ctx context.Context, req *tradesimv1.GetLeaderboardRequest) (*tradesimv1.GetLeaderboardResponse, error) {
	if req.Limit < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "limit must not be negative")
	}

	entries, err := s.LeaderboardService.GetLeaderboard(ctx, int(req.Limit))
	if err != nil {
		return nil, mapError(err)
	}

	protoEntries := make([]*tradesimv1.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		protoEntries = append(protoEntries, &tradesimv1.LeaderboardEntry{
			Rank:           int32(e.Rank),
			AccountId:      e.AccountID.String(),
			Name:           e.Name,
			CashBalance:    money(e.CashBalance),
			HoldingsValue:  money(e.HoldingsValue),
			PortfolioValue: money(e.PortfolioValue),
			TotalGain:      money(e.TotalGain),
			GainPercent:    money(e.GainPercent),
			Badge:          string(e.Badge),
		})
	}

	return &tradesimv1.GetLeaderboardResponse{Entries: protoEntries}, nil
}

// AddToWatchlist handles the AddToWatchlist RPC
func (s *Server) AddToWatchlist(ctx context.Context, req *tradesimv1.WatchlistRequest) (*tradesimv1.WatchlistResponse, error) {
	accountID, err := uuid.Parse(req.AccountId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid account_id format: %v", err)
	}

	if err := s.WatchlistService.Add(ctx, accountID, req.Symbol); err != nil {
		return nil, mapError(err)
	}
	return &tradesimv1.WatchlistResponse{}, nil
}

// RemoveFromWatchlist handles the RemoveFromWatchlist RPC
func (s *Server) RemoveFromWatchlist(ctx context.Context, req *tradesimv1.WatchlistRequest) (*tradesimv1.WatchlistResponse, error) {
	accountID, err := uuid.Parse(req.AccountId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid account_id format: %v", err)
	}

	if err := s.WatchlistService.Remove(ctx, accountID, req.Symbol); err != nil {
		return nil, mapError(err)
	}
	return &tradesimv1.WatchlistResponse{}, nil
}

// ListWatchlist handles the ListWatchlist RPC
func (s *Server) ListWatchlist(ctx context.Context, req *tradesimv1.ListWatchlistRequest) (*tradesimv1.ListWatchlistResponse, error) {
	accountID, err := uuid.Parse(req.AccountId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid account_id format: %v", err)
	}

	items, err := s.WatchlistService.List(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	protoItems := make([]*tradesimv1.WatchlistItem, 0, len(items))
	for _, item := range items {
		protoItem := &tradesimv1.WatchlistItem{
			Symbol:  item.Symbol,
			AddedAt: timestamppb.New(item.AddedAt),
		}
		if item.Price != nil {
			protoItem.Price = domainPriceToProto(item.Price)
		}
		protoItems = append(protoItems, protoItem)
	}

	return &tradesimv1.ListWatchlistResponse{Items: protoItems}, nil
}

// protoTradeToOrder parses the request; quantity and symbol are validated by the trade engine
func protoTradeToOrder(req *tradesimv1.TradeRequest) (domain.TradeOrder, error) {
	accountID, err := uuid.Parse(req.AccountId)
	if err != nil {
		return domain.TradeOrder{}, status.Errorf(codes.InvalidArgument, "invalid account_id format: %v", err)
	}
	return domain.TradeOrder{
		AccountID: accountID,
		Symbol:    req.Symbol,
		Quantity:  req.Quantity,
	}, nil
}

func tradeResultToProto(result *trade.Result) *tradesimv1.TradeResponse {
	resp := &tradesimv1.TradeResponse{
		Transaction: domainTransactionToProto(result.Transaction),
		CashBalance: money(result.CashBalance),
	}
	if result.Holding != nil {
		resp.Holding = &tradesimv1.Holding{
			Symbol:        result.Holding.Symbol,
			Quantity:      result.Holding.Quantity,
			AvgCost:       money(result.Holding.AvgCost),
			InvestedValue: money(result.Holding.InvestedValue()),
		}
	}
	return resp
}

// domainAccountToProto converts a domain Account to a proto Account message
func domainAccountToProto(acc *domain.Account) *tradesimv1.Account {
	return &tradesimv1.Account{
		Id:          acc.ID.String(),
		Name:        acc.Name,
		CashBalance: money(acc.CashBalance),
		CreatedAt:   timestamppb.New(acc.CreatedAt),
	}
}

// domainTransactionToProto converts a domain Transaction to a proto Transaction message
func domainTransactionToProto(tx *domain.Transaction) *tradesimv1.Transaction {
	return &tradesimv1.Transaction{
		Id:           tx.ID.String(),
		AccountId:    tx.AccountID.String(),
		Symbol:       tx.Symbol,
		AssetName:    tx.AssetName,
		Side:         string(tx.Side),
		Quantity:     tx.Quantity,
		PricePerUnit: money(tx.PricePerUnit),
		TotalAmount:  money(tx.TotalAmount()),
		ExecutedAt:   timestamppb.New(tx.Timestamp),
	}
}

// domainPriceToProto converts a domain InstrumentPrice to a proto InstrumentPrice message
func domainPriceToProto(p *domain.InstrumentPrice) *tradesimv1.InstrumentPrice {
	return &tradesimv1.InstrumentPrice{
		Symbol:             p.Symbol,
		Name:               p.Name,
		AssetType:          string(p.AssetType),
		CurrentPrice:       money(p.CurrentPrice),
		DailyChange:        money(p.DailyChange),
		DailyChangePercent: money(p.DailyChangePercent),
		LastUpdated:        timestamppb.New(p.LastUpdated),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidSymbol):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrInsufficientHoldings):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrUnknownInstrument), errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrStorageFailure):
		// Retryable: the unit of work was rolled back
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
