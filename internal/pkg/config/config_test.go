package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, 4, cfg.HistoryWorkers)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoad_StoreDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "x",
		"STORE_DRIVER": "postgres",
	}))
	assert.Error(t, err, "postgres needs DATABASE_URL")

	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "x",
		"STORE_DRIVER": " File ",
		"DATA_DIR":     "/tmp/laundry",
		"TOKEN_TTL":    "2h",
	}))
	require.NoError(t, err)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, "/tmp/laundry", cfg.Store.DataDir)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "x",
		"STORE_DRIVER": "sqlite",
	}))
	assert.Error(t, err)
}
