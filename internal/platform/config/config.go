package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // business timezone must resolve on minimal images

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	Port           string `validate:"required"`
	IsProduction   bool
	JWTSecret      string `validate:"required,min=16"`
	AllowedOrigins []string `validate:"min=1"`
	RateLimit      string `validate:"required"` // ulule format, e.g. "100-M"

	// Persistence
	StoreDriver   string `validate:"oneof=memory postgres redis"`
	DatabaseURL   string `validate:"required_if=StoreDriver postgres"`
	EnableDBCheck bool
	RedisAddr     string `validate:"required_if=StoreDriver redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`

	// Events
	KafkaBrokers []string
	KafkaTopic   string

	// Rates
	PriceFeedURL         string        `validate:"required,url"`
	PriceFeedTimeout     time.Duration `validate:"gt=0"`
	RatesFreshnessWindow time.Duration `validate:"gt=0"`
	Pairs                map[string]domain.PairConfig

	// Locks and limits
	PriceLockDuration time.Duration  `validate:"gt=0"`
	BusinessTimezone  string         `validate:"required"`
	BusinessLocation  *time.Location `validate:"-"`
	Limits            domain.TransactionLimits
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		AllowedOrigins:       splitList(v.GetString("ALLOWED_ORIGINS")),
		RateLimit:            v.GetString("RATE_LIMIT"),
		StoreDriver:          strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:          v.GetString("PGSQL_URL"),
		EnableDBCheck:        v.GetBool("ENABLE_DB_CHECK"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		KafkaBrokers:         splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:           v.GetString("KAFKA_TOPIC"),
		PriceFeedURL:         v.GetString("PRICE_FEED_URL"),
		PriceFeedTimeout:     v.GetDuration("PRICE_FEED_TIMEOUT"),
		RatesFreshnessWindow: v.GetDuration("RATES_FRESHNESS_WINDOW"),
		PriceLockDuration:    v.GetDuration("PRICE_LOCK_DURATION"),
		BusinessTimezone:     v.GetString("BUSINESS_TIMEZONE"),
	}

	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", cfg.BusinessTimezone, err)
	}
	cfg.BusinessLocation = loc

	if cfg.Limits, err = loadLimits(v); err != nil {
		return nil, err
	}
	if cfg.Pairs, err = loadPairs(v, DefaultPairs()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "exchange-events")
	v.SetDefault("PRICE_FEED_URL", "https://api.binance.com")
	v.SetDefault("PRICE_FEED_TIMEOUT", "5s")
	v.SetDefault("RATES_FRESHNESS_WINDOW", "30s")
	v.SetDefault("PRICE_LOCK_DURATION", domain.DefaultPriceLockDuration.String())
	v.SetDefault("BUSINESS_TIMEZONE", "America/Argentina/Buenos_Aires")
	v.SetDefault("LIMIT_MIN_AMOUNT_USD", "10")
	v.SetDefault("LIMIT_MAX_AMOUNT_USD", "5000")
	v.SetDefault("LIMIT_MAX_MONTHLY_USD", "20000")
	v.SetDefault("LIMIT_MAX_DAILY_TRANSACTIONS", 5)
}

func loadLimits(v *viper.Viper) (domain.TransactionLimits, error) {
	var limits domain.TransactionLimits
	var err error
	if limits.MinAmountUSD, err = getDecimal(v, "LIMIT_MIN_AMOUNT_USD"); err != nil {
		return limits, err
	}
	if limits.MaxAmountUSD, err = getDecimal(v, "LIMIT_MAX_AMOUNT_USD"); err != nil {
		return limits, err
	}
	if limits.MaxMonthlyUSD, err = getDecimal(v, "LIMIT_MAX_MONTHLY_USD"); err != nil {
		return limits, err
	}
	limits.MaxDailyTransactions = v.GetInt("LIMIT_MAX_DAILY_TRANSACTIONS")

	switch {
	case !limits.MinAmountUSD.IsPositive():
		return limits, fmt.Errorf("LIMIT_MIN_AMOUNT_USD must be positive")
	case limits.MaxAmountUSD.LessThan(limits.MinAmountUSD):
		return limits, fmt.Errorf("LIMIT_MAX_AMOUNT_USD must not be below LIMIT_MIN_AMOUNT_USD")
	case limits.MaxMonthlyUSD.LessThan(limits.MaxAmountUSD):
		return limits, fmt.Errorf("LIMIT_MAX_MONTHLY_USD must not be below LIMIT_MAX_AMOUNT_USD")
	case limits.MaxDailyTransactions <= 0:
		return limits, fmt.Errorf("LIMIT_MAX_DAILY_TRANSACTIONS must be positive")
	}
	return limits, nil
}

// loadPairs applies PAIR_<BASE>_<TARGET>_{SELL,BUY}_{ADJUSTMENT,COMMISSION} overrides.
func loadPairs(v *viper.Viper, pairs map[string]domain.PairConfig) (map[string]domain.PairConfig, error) {
	for key, p := range pairs {
		prefix := "PAIR_" + strings.ReplaceAll(key, "-", "_") + "_"
		fields := []struct {
			name   string
			target *decimal.Decimal
		}{
			{"SELL_ADJUSTMENT", &p.SellAdjustment},
			{"BUY_ADJUSTMENT", &p.BuyAdjustment},
			{"SELL_COMMISSION", &p.SellCommission},
			{"BUY_COMMISSION", &p.BuyCommission},
		}
		for _, f := range fields {
			raw := v.GetString(prefix + f.name)
			if raw == "" {
				continue
			}
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s%s %q: %w", prefix, f.name, raw, err)
			}
			*f.target = d
		}
		if p.SellCommission.IsNegative() || p.BuyCommission.IsNegative() ||
			p.SellCommission.GreaterThanOrEqual(decimal.NewFromInt(1)) || p.BuyCommission.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("commissions of %s must be within [0, 1)", key)
		}
		pairs[key] = p
	}
	return pairs, nil
}

// Validate checks the struct-level constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getDecimal(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
