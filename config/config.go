package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Fees       FeeConfig
	Settlement SettlementConfig
	Rail       RailConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// FeeConfig holds the default fee rates applied when a payment is recorded.
// The platform rate can be overridden per company via platform settings.
type FeeConfig struct {
	PlatformRate   decimal.Decimal
	ProcessingRate decimal.Decimal
}

type SettlementConfig struct {
	// MethodMinimumCents is the minimum disbursable amount per payout method.
	// A missing entry means no minimum is enforced for that method.
	MethodMinimumCents map[string]int64
	RailTimeout        time.Duration
}

// RailConfig for the NorthPay disbursement API.
type RailConfig struct {
	BaseURL  string
	Email    string
	Password string
	UseStub  bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8080"),
			Env:          envOr("ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DB_DSN", "affiliatex:affiliatex@tcp(localhost:3306)/affiliatex?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "affiliatex",
		},
		Fees: FeeConfig{
			PlatformRate:   decimalEnvOr("PLATFORM_FEE_RATE", "0.04"),
			ProcessingRate: decimalEnvOr("PROCESSING_FEE_RATE", "0.03"),
		},
		Settlement: SettlementConfig{
			MethodMinimumCents: map[string]int64{
				"E_TRANSFER": 100, // $1.00 e-transfer minimum
			},
			RailTimeout: 30 * time.Second,
		},
		Rail: func() RailConfig {
			email := os.Getenv("RAIL_EMAIL")
			return RailConfig{
				BaseURL:  envOr("RAIL_BASE_URL", "https://api.northpay.io"),
				Email:    email,
				Password: os.Getenv("RAIL_PASSWORD"),
				UseStub:  email == "" || boolEnv("RAIL_USE_STUB"),
			}
		}(),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func decimalEnvOr(key, def string) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(def)
}

func boolEnv(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
