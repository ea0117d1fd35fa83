package tradesimv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	TradeSimService_OpenAccount_FullMethodName         = "/tradesim.v1.TradeSimService/OpenAccount"
	TradeSimService_GetAccount_FullMethodName          = "/tradesim.v1.TradeSimService/GetAccount"
	TradeSimService_Buy_FullMethodName                 = "/tradesim.v1.TradeSimService/Buy"
	TradeSimService_Sell_FullMethodName                = "/tradesim.v1.TradeSimService/Sell"
	TradeSimService_GetPortfolio_FullMethodName        = "/tradesim.v1.TradeSimService/GetPortfolio"
	TradeSimService_GetPrice_FullMethodName            = "/tradesim.v1.TradeSimService/GetPrice"
	TradeSimService_ListPrices_FullMethodName          = "/tradesim.v1.TradeSimService/ListPrices"
	TradeSimService_SearchInstruments_FullMethodName   = "/tradesim.v1.TradeSimService/SearchInstruments"
	TradeSimService_ListTransactions_FullMethodName    = "/tradesim.v1.TradeSimService/ListTransactions"
	TradeSimService_GetLeaderboard_FullMethodName      = "/tradesim.v1.TradeSimService/GetLeaderboard"
	TradeSimService_AddToWatchlist_FullMethodName      = "/tradesim.v1.TradeSimService/AddToWatchlist"
	TradeSimService_RemoveFromWatchlist_FullMethodName = "/tradesim.v1.TradeSimService/RemoveFromWatchlist"
	TradeSimService_ListWatchlist_FullMethodName       = "/tradesim.v1.TradeSimService/ListWatchlist"
)

// TradeSimServiceServer is the server API for the TradeSim service
type TradeSimServiceServer interface {
	OpenAccount(context.Context, *OpenAccountRequest) (*OpenAccountResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error)
	Buy(context.Context, *TradeRequest) (*TradeResponse, error)
	Sell(context.Context, *TradeRequest) (*TradeResponse, error)
	GetPortfolio(context.Context, *GetPortfolioRequest) (*GetPortfolioResponse, error)
	GetPrice(context.Context, *GetPriceRequest) (*GetPriceResponse, error)
	ListPrices(context.Context, *ListPricesRequest) (*ListPricesResponse, error)
	SearchInstruments(context.Context, *SearchInstrumentsRequest) (*SearchInstrumentsResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	GetLeaderboard(context.Context, *GetLeaderboardRequest) (*GetLeaderboardResponse, error)
	AddToWatchlist(context.Context, *WatchlistRequest) (*WatchlistResponse, error)
	RemoveFromWatchlist(context.Context, *WatchlistRequest) (*WatchlistResponse, error)
	ListWatchlist(context.Context, *ListWatchlistRequest) (*ListWatchlistResponse, error)
}

// UnimplementedTradeSimServiceServer answers every RPC with codes.Unimplemented
type UnimplementedTradeSimServiceServer struct{}

func (UnimplementedTradeSimServiceServer) OpenAccount(context.Context, *OpenAccountRequest) (*OpenAccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method OpenAccount not implemented")
}
func (UnimplementedTradeSimServiceServer) GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccount not implemented")
}
func (UnimplementedTradeSimServiceServer) Buy(context.Context, *TradeRequest) (*TradeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Buy not implemented")
}
func (UnimplementedTradeSimServiceServer) Sell(context.Context, *TradeRequest) (*TradeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Sell not implemented")
}
func (UnimplementedTradeSimServiceServer) GetPortfolio(context.Context, *GetPortfolioRequest) (*GetPortfolioResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPortfolio not implemented")
}
func (UnimplementedTradeSimServiceServer) GetPrice(context.Context, *GetPriceRequest) (*GetPriceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPrice not implemented")
}
func (UnimplementedTradeSimServiceServer) ListPrices(context.Context, *ListPricesRequest) (*ListPricesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPrices not implemented")
}
func (UnimplementedTradeSimServiceServer) SearchInstruments(context.Context, *SearchInstrumentsRequest) (*SearchInstrumentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchInstruments not implemented")
}
func (UnimplementedTradeSimServiceServer) ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTransactions not implemented")
}
func (UnimplementedTradeSimServiceServer) GetLeaderboard(context.Context, *GetLeaderboardRequest) (*GetLeaderboardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLeaderboard not implemented")
}
func (UnimplementedTradeSimServiceServer) AddToWatchlist(context.Context, *WatchlistRequest) (*WatchlistResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddToWatchlist not implemented")
}
func (UnimplementedTradeSimServiceServer) RemoveFromWatchlist(context.Context, *WatchlistRequest) (*WatchlistResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveFromWatchlist not implemented")
}
func (UnimplementedTradeSimServiceServer) ListWatchlist(context.Context, *ListWatchlistRequest) (*ListWatchlistResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListWatchlist not implemented")
}

// RegisterTradeSimServiceServer registers srv on s
func RegisterTradeSimServiceServer(s grpc.ServiceRegistrar, srv TradeSimServiceServer) {
	s.RegisterService(&TradeSimService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler
func unaryHandler[Req, Resp any](fullMethod string, call func(TradeSimServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TradeSimServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TradeSimServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TradeSimService_ServiceDesc is the grpc.ServiceDesc for the TradeSim service.
// Messages travel as JSON, so no protobuf file descriptor backs it.
var TradeSimService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tradesim.v1.TradeSimService",
	HandlerType: (*TradeSimServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OpenAccount", Handler: unaryHandler(TradeSimService_OpenAccount_FullMethodName, TradeSimServiceServer.OpenAccount)},
		{MethodName: "GetAccount", Handler: unaryHandler(TradeSimService_GetAccount_FullMethodName, TradeSimServiceServer.GetAccount)},
		{MethodName: "Buy", Handler: unaryHandler(TradeSimService_Buy_FullMethodName, TradeSimServiceServer.Buy)},
		{MethodName: "Sell", Handler: unaryHandler(TradeSimService_Sell_FullMethodName, TradeSimServiceServer.Sell)},
		{MethodName: "GetPortfolio", Handler: unaryHandler(TradeSimService_GetPortfolio_FullMethodName, TradeSimServiceServer.GetPortfolio)},
		{MethodName: "GetPrice", Handler: unaryHandler(TradeSimService_GetPrice_FullMethodName, TradeSimServiceServer.GetPrice)},
		{MethodName: "ListPrices", Handler: unaryHandler(TradeSimService_ListPrices_FullMethodName, TradeSimServiceServer.ListPrices)},
		{MethodName: "SearchInstruments", Handler: unaryHandler(TradeSimService_SearchInstruments_FullMethodName, TradeSimServiceServer.SearchInstruments)},
		{MethodName: "ListTransactions", Handler: unaryHandler(TradeSimService_ListTransactions_FullMethodName, TradeSimServiceServer.ListTransactions)},
		{MethodName: "GetLeaderboard", Handler: unaryHandler(TradeSimService_GetLeaderboard_FullMethodName, TradeSimServiceServer.GetLeaderboard)},
		{MethodName: "AddToWatchlist", Handler: unaryHandler(TradeSimService_AddToWatchlist_FullMethodName, TradeSimServiceServer.AddToWatchlist)},
		{MethodName: "RemoveFromWatchlist", Handler: unaryHandler(TradeSimService_RemoveFromWatchlist_FullMethodName, TradeSimServiceServer.RemoveFromWatchlist)},
		{MethodName: "ListWatchlist", Handler: unaryHandler(TradeSimService_ListWatchlist_FullMethodName, TradeSimServiceServer.ListWatchlist)},
	},
	Streams: []grpc.StreamDesc{},
}
