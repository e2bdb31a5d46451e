package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cartsvc/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 10*time.Minute, cfg.CartCacheTTL)
	assert.Equal(t, 3, cfg.CartSaveAttempts)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.SeedCatalog)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CART_CACHE_TTL", "30s")
	t.Setenv("CART_SAVE_ATTEMPTS", "5")
	t.Setenv("SEED_CATALOG", "true")

	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.CartCacheTTL)
	assert.Equal(t, 5, cfg.CartSaveAttempts)
	assert.True(t, cfg.SeedCatalog)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cartsvc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("LOG_MODE: prod\nREDIS_DB: 2\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CART_SAVE_ATTEMPTS", "0")
	_, err := config.LoadFrom(viper.New())
	assert.Error(t, err)

	t.Setenv("CART_SAVE_ATTEMPTS", "3")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = config.LoadFrom(viper.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}
