package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simaogato/tradesim-backend/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "json info", level: "info", format: "json"},
		{name: "console debug", level: "debug", format: "console"},
		{name: "bad level", level: "loud", format: "json", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(config.Config{LogLevel: tt.level, LogFormat: tt.format})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestOpenStorage_Memory(t *testing.T) {
	storage, err := OpenStorage(context.Background(), config.Config{Storage: config.StorageMemory}, zap.NewNop())
	require.NoError(t, err)
	defer storage.Close()

	assert.NotNil(t, storage.Accounts)
	assert.NotNil(t, storage.Holdings)
	assert.NotNil(t, storage.Transactions)
	assert.NotNil(t, storage.Prices)
	assert.NotNil(t, storage.Watchlist)
	assert.NotNil(t, storage.UnitOfWork)
}

func TestNewRefresher_Static(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"PRICE_SOURCE": "static", "STORAGE": "memory"})
	require.NoError(t, err)

	storage, err := OpenStorage(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	refresher, err := NewRefresher(cfg, storage.Prices, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, refresher.Primary)

	refreshed := refresher.RefreshOnce(context.Background())
	assert.Equal(t, len(refresher.Catalogue), refreshed)
}
