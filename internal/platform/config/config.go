package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage and cache drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	StorageDriver string // postgres or memory

	// HTTP surface
	JWTSecret          string
	JWTIssuer          string
	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string

	// Rate cache store
	RateCacheDriver string // memory or redis
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	// Event sink
	KafkaBrokers       []string
	KafkaExchangeTopic string

	// Rate providers
	RateProvider        string   // default provider name
	RateProviders       []string // enabled providers, in fallback order
	RateProviderTimeout time.Duration
	OpenERAPIURL        string
	FrankfurterURL      string
	ExchangeRateAPIURL  string
	ExchangeRateAPIKey  string

	// Quoting and execution
	RateFreshnessWindow  time.Duration
	QuoteValidityWindow  time.Duration
	SlippageTolerance    decimal.Decimal
	MaxSlippageTolerance decimal.Decimal
	SyntheticJitterPct   decimal.Decimal
	SyntheticSeed        uint64

	// Background workers
	CompletionInterval  time.Duration
	CompletionMinAge    time.Duration
	CompletionBatchSize int
	OutboxInterval      time.Duration
	OutboxBatchSize     int
	QuotePurgeInterval  time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", DriverPostgres)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "fx-exchange-engine")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_CACHE_DRIVER", DriverMemory)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_EXCHANGE_TOPIC", "fx.exchange.events")
	viper.SetDefault("RATE_PROVIDER", "open_er_api")
	viper.SetDefault("RATE_PROVIDERS", "open_er_api,frankfurter")
	viper.SetDefault("RATE_PROVIDER_TIMEOUT", "3s")
	viper.SetDefault("OPEN_ER_API_URL", "https://open.er-api.com")
	viper.SetDefault("FRANKFURTER_URL", "https://api.frankfurter.app")
	viper.SetDefault("EXCHANGERATE_API_URL", "https://v6.exchangerate-api.com")
	viper.SetDefault("EXCHANGERATE_API_KEY", "")
	viper.SetDefault("RATE_FRESHNESS_WINDOW", "10m")
	viper.SetDefault("QUOTE_VALIDITY_WINDOW", "2m")
	viper.SetDefault("SLIPPAGE_TOLERANCE", "0.01")
	viper.SetDefault("MAX_SLIPPAGE_TOLERANCE", "0.05")
	viper.SetDefault("SYNTHETIC_JITTER_PCT", "0.005")
	viper.SetDefault("SYNTHETIC_SEED", 0)
	viper.SetDefault("COMPLETION_INTERVAL", "5s")
	viper.SetDefault("COMPLETION_MIN_AGE", "2s")
	viper.SetDefault("COMPLETION_BATCH_SIZE", 50)
	viper.SetDefault("OUTBOX_INTERVAL", "2s")
	viper.SetDefault("QUOTE_PURGE_INTERVAL", "1m")
	viper.SetDefault("OUTBOX_BATCH_SIZE", 100)

	// Values from a .env file are already in the process environment and
	// actual environment variables take precedence over the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.StorageDriver = oneOf("STORAGE_DRIVER", DriverPostgres, DriverPostgres, DriverMemory)
	if cfg.StorageDriver == DriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "fx-exchange-engine"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.RateCacheDriver = oneOf("RATE_CACHE_DRIVER", DriverMemory, DriverMemory, DriverRedis)
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaExchangeTopic = viper.GetString("KAFKA_EXCHANGE_TOPIC")
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: KAFKA_BROKERS not set. Domain events will be written to the log only.")
	}

	cfg.RateProvider = strings.ToLower(strings.TrimSpace(viper.GetString("RATE_PROVIDER")))
	cfg.RateProviders = splitList(strings.ToLower(viper.GetString("RATE_PROVIDERS")))
	cfg.RateProviderTimeout = durationOrDefault("RATE_PROVIDER_TIMEOUT", 3*time.Second)
	cfg.OpenERAPIURL = viper.GetString("OPEN_ER_API_URL")
	cfg.FrankfurterURL = viper.GetString("FRANKFURTER_URL")
	cfg.ExchangeRateAPIURL = viper.GetString("EXCHANGERATE_API_URL")
	cfg.ExchangeRateAPIKey = viper.GetString("EXCHANGERATE_API_KEY")

	cfg.RateFreshnessWindow = durationOrDefault("RATE_FRESHNESS_WINDOW", 10*time.Minute)
	cfg.QuoteValidityWindow = durationOrDefault("QUOTE_VALIDITY_WINDOW", 2*time.Minute)
	cfg.SlippageTolerance = fractionOrDefault("SLIPPAGE_TOLERANCE", decimal.RequireFromString("0.01"))
	cfg.MaxSlippageTolerance = fractionOrDefault("MAX_SLIPPAGE_TOLERANCE", decimal.RequireFromString("0.05"))
	if cfg.SlippageTolerance.GreaterThan(cfg.MaxSlippageTolerance) {
		log.Printf("Warning: SLIPPAGE_TOLERANCE (%s) exceeds MAX_SLIPPAGE_TOLERANCE (%s). Capping.\n",
			cfg.SlippageTolerance, cfg.MaxSlippageTolerance)
		cfg.SlippageTolerance = cfg.MaxSlippageTolerance
	}
	cfg.SyntheticJitterPct = fractionOrDefault("SYNTHETIC_JITTER_PCT", decimal.RequireFromString("0.005"))
	cfg.SyntheticSeed = viper.GetUint64("SYNTHETIC_SEED")
	if cfg.SyntheticSeed == 0 {
		cfg.SyntheticSeed = uint64(time.Now().UnixNano())
	}

	cfg.CompletionInterval = durationOrDefault("COMPLETION_INTERVAL", 5*time.Second)
	cfg.CompletionMinAge = durationOrDefault("COMPLETION_MIN_AGE", 2*time.Second)
	cfg.CompletionBatchSize = positiveIntOrDefault("COMPLETION_BATCH_SIZE", 50)
	cfg.OutboxInterval = durationOrDefault("OUTBOX_INTERVAL", 2*time.Second)
	cfg.OutboxBatchSize = positiveIntOrDefault("OUTBOX_BATCH_SIZE", 100)
	cfg.QuotePurgeInterval = durationOrDefault("QUOTE_PURGE_INTERVAL", time.Minute)

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

// fractionOrDefault reads a decimal fraction in [0, 1).
func fractionOrDefault(key string, def decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func positiveIntOrDefault(key string, def int) int {
	n := viper.GetInt(key)
	if n <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %d.\n", key, viper.GetString(key), def)
		return def
	}
	return n
}

func oneOf(key, def string, allowed ...string) string {
	raw := strings.ToLower(strings.TrimSpace(viper.GetString(key)))
	for _, a := range allowed {
		if raw == a {
			return raw
		}
	}
	log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
