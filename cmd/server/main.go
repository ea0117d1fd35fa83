package main

import (
	"context"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/simaogato/tradesim-backend/internal/adapter/cache"
	"github.com/simaogato/tradesim-backend/internal/adapter/events"
	grpcadapter "github.com/simaogato/tradesim-backend/internal/adapter/grpc"
	"github.com/simaogato/tradesim-backend/internal/bootstrap"
	"github.com/simaogato/tradesim-backend/internal/config"
	"github.com/simaogato/tradesim-backend/internal/domain"
	"github.com/simaogato/tradesim-backend/internal/usecase/account"
	"github.com/simaogato/tradesim-backend/internal/usecase/instrument"
	"github.com/simaogato/tradesim-backend/internal/usecase/leaderboard"
	"github.com/simaogato/tradesim-backend/internal/usecase/pricing"
	"github.com/simaogato/tradesim-backend/internal/usecase/seeder"
	"github.com/simaogato/tradesim-backend/internal/usecase/trade"
	"github.com/simaogato/tradesim-backend/internal/usecase/valuation"
	"github.com/simaogato/tradesim-backend/internal/usecase/watchlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Setup storage
	storage, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer storage.Close()

	priceCache, err := cache.New(1<<12, cfg.PriceCacheTTL)
	if err != nil {
		logger.Fatal("failed to create price cache", zap.Error(err))
	}
	defer priceCache.Close()

	// Read-side consumers see prices through the cache; the trade engine
	// reads them inside its unit of work.
	cachedPrices := cache.NewPriceRepository(storage.Prices, priceCache)

	// 2. Seed prices so trading works before the first refresh
	marketSeeder := seeder.NewMarketSeeder(cachedPrices, pricing.DefaultCatalogue(), logger)
	seeded, err := marketSeeder.Seed(ctx)
	if err != nil {
		logger.Fatal("failed to seed prices", zap.Error(err))
	}
	logger.Info("prices seeded", zap.Int("inserted", seeded))

	// 3. Trade events
	var publisher interface {
		domain.TradePublisher
		io.Closer
	} = events.NopPublisher{}
	if cfg.KafkaEnabled() {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("publishing trade events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer publisher.Close()

	// 4. Initialize services
	accountService := account.NewAccountService(storage.Accounts, cfg.StartingBalance, logger)
	tradeService := trade.NewTradeService(storage.UnitOfWork, storage.Accounts, storage.Transactions, publisher, logger)
	tradeService.Currency = cfg.Currency
	tradeService.PublishTimeout = cfg.KafkaPublishTimeout
	valuationService := valuation.NewValuationService(storage.Accounts, storage.Holdings, cachedPrices, logger)
	leaderboardService := leaderboard.NewLeaderboardService(storage.Accounts, storage.Holdings, cachedPrices, cfg.LeaderboardInitialBalance)
	watchlistService := watchlist.NewWatchlistService(storage.Watchlist, cachedPrices)
	instrumentService := instrument.NewInstrumentService(cachedPrices)

	// 5. Price refresh job
	refresher, err := bootstrap.NewRefresher(cfg, cachedPrices, logger)
	if err != nil {
		logger.Fatal("failed to create price refresher", zap.Error(err))
	}
	go func() {
		if err := refresher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("price refresher stopped", zap.Error(err))
		}
	}()

	// 6. Start gRPC server
	grpcAdapter := grpcadapter.NewServer(accountService, tradeService, valuationService, leaderboardService, watchlistService, instrumentService, cachedPrices)
	grpcServer, healthServer := grpcadapter.NewGRPCServer(grpcAdapter, logger.Named("grpc"), cfg.APIToken)

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPCPort), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal("failed to serve gRPC server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, healthServer, cancel, logger)

	// Flush trade events still in flight before the publisher closes
	tradeService.Wait()
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, healthServer *health.Server, cancel context.CancelFunc, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down gracefully", zap.String("signal", sig.String()))

	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}
