package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	MigrationsPath string
	RateLimit      string
	CORSOrigins    []string

	// Reconciliation job
	ReconcileEnabled      bool
	ReconcileInterval     time.Duration
	ReconcileStartupDelay time.Duration
	ReconcileRunTimeout   time.Duration
	ReconcileWorkers      int
	AuditEpsilon          decimal.Decimal

	// Daily storage rates
	RatePremiumKES  decimal.Decimal
	RateStandardKES decimal.Decimal
	RateDefaultUSD  decimal.Decimal

	// Read API case cache
	CaseCacheTTL  time.Duration
	CaseCacheSize int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("RECONCILE_ENABLED", true)
	v.SetDefault("RECONCILE_INTERVAL", "5m")
	v.SetDefault("RECONCILE_STARTUP_DELAY", "15m")
	v.SetDefault("RECONCILE_RUN_TIMEOUT", "4m")
	v.SetDefault("RECONCILE_WORKERS", 4)
	v.SetDefault("AUDIT_EPSILON", "0.01")

	v.SetDefault("RATE_PREMIUM_KES", "5000")
	v.SetDefault("RATE_STANDARD_KES", "3000")
	v.SetDefault("RATE_DEFAULT_USD", "130")

	v.SetDefault("CASE_CACHE_TTL", "1m")
	v.SetDefault("CASE_CACHE_SIZE", 1024)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:      v.GetString("PGSQL_URL"),
		Port:             v.GetString("PORT"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		MigrationsPath:   v.GetString("MIGRATIONS_PATH"),
		RateLimit:        v.GetString("RATE_LIMIT"),
		CORSOrigins:      splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ReconcileEnabled: v.GetBool("RECONCILE_ENABLED"),
		ReconcileWorkers: v.GetInt("RECONCILE_WORKERS"),
		CaseCacheSize:    v.GetInt("CASE_CACHE_SIZE"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.ReconcileWorkers <= 0 {
		log.Printf("Warning: Invalid value for RECONCILE_WORKERS (%d). Defaulting to 4.\n", cfg.ReconcileWorkers)
		cfg.ReconcileWorkers = 4
	}

	cfg.ReconcileInterval = durationOr(v, "RECONCILE_INTERVAL", 5*time.Minute)
	cfg.ReconcileStartupDelay = durationOr(v, "RECONCILE_STARTUP_DELAY", 15*time.Minute)
	cfg.ReconcileRunTimeout = durationOr(v, "RECONCILE_RUN_TIMEOUT", 4*time.Minute)
	cfg.CaseCacheTTL = durationOr(v, "CASE_CACHE_TTL", time.Minute)

	cfg.AuditEpsilon = positiveDecimalOr(v, "AUDIT_EPSILON", decimal.RequireFromString("0.01"))
	cfg.RatePremiumKES = positiveDecimalOr(v, "RATE_PREMIUM_KES", decimal.NewFromInt(5000))
	cfg.RateStandardKES = positiveDecimalOr(v, "RATE_STANDARD_KES", decimal.NewFromInt(3000))
	cfg.RateDefaultUSD = positiveDecimalOr(v, "RATE_DEFAULT_USD", decimal.NewFromInt(130))

	return cfg
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}

func positiveDecimalOr(v *viper.Viper, key string, fallback decimal.Decimal) decimal.Decimal {
	raw := v.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}

// splitList parses a comma separated env value.
func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
