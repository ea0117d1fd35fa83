package tradesimv1

import (
	"context"

	"google.golang.org/grpc"
)

// TradeSimServiceClient is the client API for the TradeSim service
type TradeSimServiceClient interface {
	OpenAccount(ctx context.Context, in *OpenAccountRequest, opts ...grpc.CallOption) (*OpenAccountResponse, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error)
	Buy(ctx context.Context, in *TradeRequest, opts ...grpc.CallOption) (*TradeResponse, error)
	Sell(ctx context.Context, in *TradeRequest, opts ...grpc.CallOption) (*TradeResponse, error)
	GetPortfolio(ctx context.Context, in *GetPortfolioRequest, opts ...grpc.CallOption) (*GetPortfolioResponse, error)
	GetPrice(ctx context.Context, in *GetPriceRequest, opts ...grpc.CallOption) (*GetPriceResponse, error)
	ListPrices(ctx context.Context, in *ListPricesRequest, opts ...grpc.CallOption) (*ListPricesResponse, error)
	SearchInstruments(ctx context.Context, in *SearchInstrumentsRequest, opts ...grpc.CallOption) (*SearchInstrumentsResponse, error)
	ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error)
	GetLeaderboard(ctx context.Context, in *GetLeaderboardRequest, opts ...grpc.CallOption) (*GetLeaderboardResponse, error)
	AddToWatchlist(ctx context.Context, in *WatchlistRequest, opts ...grpc.CallOption) (*WatchlistResponse, error)
	RemoveFromWatchlist(ctx context.Context, in *WatchlistRequest, opts ...grpc.CallOption) (*WatchlistResponse, error)
	ListWatchlist(ctx context.Context, in *ListWatchlistRequest, opts ...grpc.CallOption) (*ListWatchlistResponse, error)
}

type tradeSimServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTradeSimServiceClient returns a client that sends every call with the JSON codec
func NewTradeSimServiceClient(cc grpc.ClientConnInterface) TradeSimServiceClient {
	return &tradeSimServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tradeSimServiceClient) OpenAccount(ctx context.Context, in *OpenAccountRequest, opts ...grpc.CallOption) (*OpenAccountResponse, error) {
	return invoke[OpenAccountResponse](ctx, c.cc, TradeSimService_OpenAccount_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error) {
	return invoke[GetAccountResponse](ctx, c.cc, TradeSimService_GetAccount_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) Buy(ctx context.Context, in *TradeRequest, opts ...grpc.CallOption) (*TradeResponse, error) {
	return invoke[TradeResponse](ctx, c.cc, TradeSimService_Buy_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) Sell(ctx context.Context, in *TradeRequest, opts ...grpc.CallOption) (*TradeResponse, error) {
	return invoke[TradeResponse](ctx, c.cc, TradeSimService_Sell_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) GetPortfolio(ctx context.Context, in *GetPortfolioRequest, opts ...grpc.CallOption) (*GetPortfolioResponse, error) {
	return invoke[GetPortfolioResponse](ctx, c.cc, TradeSimService_GetPortfolio_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) GetPrice(ctx context.Context, in *GetPriceRequest, opts ...grpc.CallOption) (*GetPriceResponse, error) {
	return invoke[GetPriceResponse](ctx, c.cc, TradeSimService_GetPrice_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) ListPrices(ctx context.Context, in *ListPricesRequest, opts ...grpc.CallOption) (*ListPricesResponse, error) {
	return invoke[ListPricesResponse](ctx, c.cc, TradeSimService_ListPrices_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) SearchInstruments(ctx context.Context, in *SearchInstrumentsRequest, opts ...grpc.CallOption) (*SearchInstrumentsResponse, error) {
	return invoke[SearchInstrumentsResponse](ctx, c.cc, TradeSimService_SearchInstruments_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, TradeSimService_ListTransactions_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) GetLeaderboard(ctx context.Context, in *GetLeaderboardRequest, opts ...grpc.CallOption) (*GetLeaderboardResponse, error) {
	return invoke[GetLeaderboardResponse](ctx, c.cc, TradeSimService_GetLeaderboard_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) AddToWatchlist(ctx context.Context, in *WatchlistRequest, opts ...grpc.CallOption) (*WatchlistResponse, error) {
	return invoke[WatchlistResponse](ctx, c.cc, TradeSimService_AddToWatchlist_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) RemoveFromWatchlist(ctx context.Context, in *WatchlistRequest, opts ...grpc.CallOption) (*WatchlistResponse, error) {
	return invoke[WatchlistResponse](ctx, c.cc, TradeSimService_RemoveFromWatchlist_FullMethodName, in, opts)
}

func (c *tradeSimServiceClient) ListWatchlist(ctx context.Context, in *ListWatchlistRequest, opts ...grpc.CallOption) (*ListWatchlistResponse, error) {
	return invoke[ListWatchlistResponse](ctx, c.cc, TradeSimService_ListWatchlist_FullMethodName, in, opts)
}
