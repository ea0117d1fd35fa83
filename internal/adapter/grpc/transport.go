package grpc

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	tradesimv1 "github.com/simaogato/tradesim-backend/internal/adapter/grpc/tradesim/v1"
)

// NewGRPCServer registers the TradeSim and health services behind the logging and
// auth interceptors. Health checks need no token. The health server starts out
// SERVING and is returned so shutdown can flip it.
func NewGRPCServer(handler *Server, logger *zap.Logger, apiToken string) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(logger),
			AuthInterceptor(apiToken, healthpb.Health_Check_FullMethodName),
		),
	)
	tradesimv1.RegisterTradeSimServiceServer(grpcServer, handler)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(tradesimv1.TradeSimService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer, healthServer
}
