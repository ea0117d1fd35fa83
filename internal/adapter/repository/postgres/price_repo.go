package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

// priceRepository implements domain.PriceRepository
type priceRepository struct {
	db dbtx
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db *DB) domain.PriceRepository {
	return &priceRepository{db: db}
}

// Get retrieves the latest price for a symbol
func (r *priceRepository) Get(ctx context.Context, symbol string) (*domain.InstrumentPrice, error) {
	query := `
		SELECT symbol, name, asset_type, current_price, daily_change, daily_change_percent, last_updated
		FROM instrument_prices
		WHERE symbol = $1
	`

	price, err := scanPrice(r.db.QueryRowContext(ctx, query, symbol))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnknownInstrument
		}
		return nil, domain.NewStorageError("failed to get price", err)
	}

	return price, nil
}

// Upsert inserts or replaces the price for a symbol
func (r *priceRepository) Upsert(ctx context.Context, price *domain.InstrumentPrice) error {
	if err := price.Validate(); err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}

	query := `
		INSERT INTO instrument_prices (symbol, name, asset_type, current_price, daily_change, daily_change_percent, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol) DO UPDATE
		SET name = EXCLUDED.name,
		    asset_type = EXCLUDED.asset_type,
		    current_price = EXCLUDED.current_price,
		    daily_change = EXCLUDED.daily_change,
		    daily_change_percent = EXCLUDED.daily_change_percent,
		    last_updated = EXCLUDED.last_updated
	`

	_, err := r.db.ExecContext(ctx, query,
		price.Symbol,
		price.Name,
		string(price.AssetType),
		price.CurrentPrice.StringFixed(domain.MoneyPlaces),
		price.DailyChange.StringFixed(domain.MoneyPlaces),
		price.DailyChangePercent.StringFixed(domain.MoneyPlaces),
		price.LastUpdated,
	)
	if err != nil {
		return domain.NewStorageError("failed to upsert price", err)
	}

	return nil
}

// List retrieves all prices ordered by symbol
func (r *priceRepository) List(ctx context.Context) ([]*domain.InstrumentPrice, error) {
	query := `
		SELECT symbol, name, asset_type, current_price, daily_change, daily_change_percent, last_updated
		FROM instrument_prices
		ORDER BY symbol ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("failed to query prices", err)
	}
	defer rows.Close()

	var prices []*domain.InstrumentPrice
	for rows.Next() {
		price, err := scanPrice(rows)
		if err != nil {
			return nil, domain.NewStorageError("failed to scan price", err)
		}
		prices = append(prices, price)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("error iterating prices", err)
	}

	return prices, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search retrieves up to limit prices whose symbol or name contains query, ignoring case
func (r *priceRepository) Search(ctx context.Context, query string, limit int) ([]*domain.InstrumentPrice, error) {
	sqlQuery := `
		SELECT symbol, name, asset_type, current_price, daily_change, daily_change_percent, last_updated
		FROM instrument_prices
		WHERE LOWER(symbol) LIKE LOWER($1) ESCAPE '\'
		   OR LOWER(name) LIKE LOWER($1) ESCAPE '\'
		ORDER BY asset_type ASC, symbol ASC
		LIMIT $2
	`

	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := r.db.QueryContext(ctx, sqlQuery, pattern, limit)
	if err != nil {
		return nil, domain.NewStorageError("failed to search prices", err)
	}
	defer rows.Close()

	var prices []*domain.InstrumentPrice
	for rows.Next() {
		price, err := scanPrice(rows)
		if err != nil {
			return nil, domain.NewStorageError("failed to scan price", err)
		}
		prices = append(prices, price)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("error iterating prices", err)
	}

	return prices, nil
}

func scanPrice(row rowScanner) (*domain.InstrumentPrice, error) {
	var price domain.InstrumentPrice
	var assetType, currentStr, changeStr, changePctStr string

	err := row.Scan(
		&price.Symbol,
		&price.Name,
		&assetType,
		&currentStr,
		&changeStr,
		&changePctStr,
		&price.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	price.AssetType = domain.AssetType(assetType)

	for _, field := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"current_price", currentStr, &price.CurrentPrice},
		{"daily_change", changeStr, &price.DailyChange},
		{"daily_change_percent", changePctStr, &price.DailyChangePercent},
	} {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field.name, err)
		}
		*field.dst = value
	}

	return &price, nil
}
