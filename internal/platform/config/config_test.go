package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "ILS", cfg.DefaultCurrency)
	assert.Equal(t, "100000", cfg.MaxExpenseAmount.String())
	assert.Equal(t, 3, cfg.LedgerWriteRetries)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "Badger")
	t.Setenv("BADGER_PATH", "/var/lib/ledger")
	t.Setenv("DEFAULT_CURRENCY", " usd ")
	t.Setenv("MAX_EXPENSE_AMOUNT", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LEDGER_WRITE_RETRIES", "-4")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_CONNECT_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverBadger, cfg.StorageDriver)
	assert.Equal(t, "/var/lib/ledger", cfg.BadgerPath)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, "100000", cfg.MaxExpenseAmount.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 0, cfg.LedgerWriteRetries)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
}
