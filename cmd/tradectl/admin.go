package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/simaogato/tradesim-backend/internal/bootstrap"
	"github.com/simaogato/tradesim-backend/internal/config"
	"github.com/simaogato/tradesim-backend/internal/usecase/pricing"
	"github.com/simaogato/tradesim-backend/internal/usecase/seeder"
)

// withStorage loads the environment configuration and opens its storage for fn
func withStorage(ctx context.Context, fn func(*bootstrap.Storage, config.Config, *zap.Logger) error) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer logger.Sync()

	storage, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		return subcommands.ExitFailure
	}
	defer storage.Close()

	if err := fn(storage, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create or update the database schema" }
func (*migrateCmd) Usage() string {
	return `migrate

  Applies the schema to the database configured by DATABASE_URL or DB_*.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// opening postgres storage migrates it
	return withStorage(ctx, func(_ *bootstrap.Storage, cfg config.Config, _ *zap.Logger) error {
		if cfg.Storage != config.StoragePostgres {
			return fmt.Errorf("migrate needs STORAGE=postgres, got %q", cfg.Storage)
		}
		fmt.Println("schema is up to date")
		return nil
	})
}

type seedPricesCmd struct{}

func (*seedPricesCmd) Name() string     { return "seed-prices" }
func (*seedPricesCmd) Synopsis() string { return "insert base prices for unpriced instruments" }
func (*seedPricesCmd) Usage() string {
	return `seed-prices

  Inserts the catalogue base price of every instrument that has no price yet.
`
}

func (*seedPricesCmd) SetFlags(*flag.FlagSet) {}

func (*seedPricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withStorage(ctx, func(storage *bootstrap.Storage, _ config.Config, logger *zap.Logger) error {
		seeded, err := seeder.NewMarketSeeder(storage.Prices, pricing.DefaultCatalogue(), logger).Seed(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("inserted %d prices\n", seeded)
		return nil
	})
}

type refreshPricesCmd struct{}

func (*refreshPricesCmd) Name() string     { return "refresh-prices" }
func (*refreshPricesCmd) Synopsis() string { return "refresh every instrument price once" }
func (*refreshPricesCmd) Usage() string {
	return `refresh-prices

  Quotes every catalogue instrument from PRICE_SOURCE and stores the result,
  regardless of market hours.
`
}

func (*refreshPricesCmd) SetFlags(*flag.FlagSet) {}

func (*refreshPricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withStorage(ctx, func(storage *bootstrap.Storage, cfg config.Config, logger *zap.Logger) error {
		refresher, err := bootstrap.NewRefresher(cfg, storage.Prices, logger)
		if err != nil {
			return err
		}
		updated := refresher.RefreshOnce(ctx)
		fmt.Printf("updated %d of %d prices\n", updated, len(refresher.Catalogue))
		return nil
	})
}
