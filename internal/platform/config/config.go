package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverBadger   = "badger"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	LogLevel      string

	DBMaxConns       int32
	DBMinConns       int32
	DBConnectTimeout time.Duration

	StorageDriver string
	BadgerPath    string // Empty runs Badger in memory

	JWTSecret string
	JWTIssuer string

	// Ledger rules
	DefaultCurrency    string
	MaxExpenseAmount   decimal.Decimal
	LedgerWriteRetries int

	// Ambient services
	RateLimit          string   `mapstructure:"RATE_LIMIT"` // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	PostHogAPIKey      string   `mapstructure:"POSTHOG_API_KEY"`
	AuditBufferSize    int      `mapstructure:"AUDIT_BUFFER_SIZE"`
	RequestTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIN_CONNS", 0)
	viper.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("BADGER_PATH", "./data/ledger")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "group-ledger")
	viper.SetDefault("DEFAULT_CURRENCY", "ILS")
	viper.SetDefault("MAX_EXPENSE_AMOUNT", "100000")
	viper.SetDefault("LEDGER_WRITE_RETRIES", 3)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("AUDIT_BUFFER_SIZE", 256)
	viper.SetDefault("REQUEST_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))
	cfg.DBMaxConns = max(viper.GetInt32("DB_MAX_CONNS"), 0)
	cfg.DBMinConns = max(viper.GetInt32("DB_MIN_CONNS"), 0)
	connectTimeoutStr := viper.GetString("DB_CONNECT_TIMEOUT")
	connectTimeout, err := time.ParseDuration(connectTimeoutStr)
	if err != nil || connectTimeout < 0 {
		connectTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for DB_CONNECT_TIMEOUT ('%s'). Defaulting to %s.\n", connectTimeoutStr, connectTimeout)
	}
	cfg.DBConnectTimeout = connectTimeout

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageDriverBadger:
	default:
		log.Printf("Warning: Invalid value for STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}
	cfg.BadgerPath = viper.GetString("BADGER_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("DEFAULT_CURRENCY")))

	maxExpenseStr := viper.GetString("MAX_EXPENSE_AMOUNT")
	maxExpense, err := decimal.NewFromString(maxExpenseStr)
	if err != nil || !maxExpense.IsPositive() {
		maxExpense = decimal.NewFromInt(100000)
		log.Printf("Warning: Invalid value for MAX_EXPENSE_AMOUNT ('%s'). Defaulting to %s.\n", maxExpenseStr, maxExpense)
	}
	cfg.MaxExpenseAmount = maxExpense

	cfg.LedgerWriteRetries = viper.GetInt("LEDGER_WRITE_RETRIES")
	if cfg.LedgerWriteRetries < 0 {
		cfg.LedgerWriteRetries = 0
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.PostHogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.AuditBufferSize = viper.GetInt("AUDIT_BUFFER_SIZE")

	timeoutStr := viper.GetString("REQUEST_TIMEOUT")
	cfg.RequestTimeout, err = time.ParseDuration(timeoutStr)
	if err != nil {
		cfg.RequestTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for REQUEST_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, cfg.RequestTimeout)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
