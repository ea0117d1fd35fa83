package config

import (
	"fmt"
	"reflect"
	"time"
	_ "time/tzdata" // MARKET_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	PriceSourceYahoo  = "yahoo"
	PriceSourceStatic = "static"
)

type Config struct {
	Storage     string `env:"STORAGE" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName      string `env:"DB_NAME" envDefault:"tradesim"`

	GRPCPort string `env:"GRPC_PORT" envDefault:":8080"`
	APIToken string `env:"API_TOKEN" envDefault:"dev-token"`

	StartingBalance           decimal.Decimal `env:"STARTING_BALANCE" envDefault:"100000"`
	LeaderboardInitialBalance decimal.Decimal `env:"LEADERBOARD_INITIAL_BALANCE" envDefault:"100000"`
	Currency                  string          `env:"CURRENCY" envDefault:"INR"`

	PriceSource            string        `env:"PRICE_SOURCE" envDefault:"yahoo"`
	PriceRefreshInterval   time.Duration `env:"PRICE_REFRESH_INTERVAL" envDefault:"15m"`
	PriceRefreshStartDelay time.Duration `env:"PRICE_REFRESH_START_DELAY" envDefault:"5s"`
	PriceMarketHoursOnly   bool          `env:"PRICE_MARKET_HOURS_ONLY" envDefault:"true"`
	MarketTimezone         string        `env:"MARKET_TIMEZONE" envDefault:"Asia/Kolkata"`
	PriceCacheTTL          time.Duration `env:"PRICE_CACHE_TTL" envDefault:"30s"`

	KafkaBrokers        []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic          string        `env:"KAFKA_TOPIC" envDefault:"trades.executed"`
	KafkaPublishTimeout time.Duration `env:"KAFKA_PUBLISH_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func parseDecimal(v string) (interface{}, error) {
	return decimal.NewFromString(v)
}

// Load reads the configuration from the process environment
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only
func LoadFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	opts.FuncMap = map[reflect.Type]env.ParserFunc{decimalType: parseDecimal}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the server cannot start with
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	switch c.PriceSource {
	case PriceSourceYahoo, PriceSourceStatic:
	default:
		return fmt.Errorf("unknown PRICE_SOURCE %q", c.PriceSource)
	}
	if !c.StartingBalance.IsPositive() {
		return fmt.Errorf("STARTING_BALANCE must be positive")
	}
	if !c.LeaderboardInitialBalance.IsPositive() {
		return fmt.Errorf("LEADERBOARD_INITIAL_BALANCE must be positive")
	}
	if c.PriceRefreshInterval <= 0 {
		return fmt.Errorf("PRICE_REFRESH_INTERVAL must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// DSN returns DATABASE_URL, or a connection string built from the DB_* variables
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// Location resolves MARKET_TIMEZONE
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.MarketTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_TIMEZONE %q: %w", c.MarketTimezone, err)
	}
	return loc, nil
}

// KafkaEnabled reports whether trade events should be published
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
