package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// Exchange rate provider
	ExchangeAPIKey       string
	ExchangeBaseURL      string
	ExchangeFetchTimeout time.Duration

	// Domain behaviour
	BaseCurrency              string
	AutoDebitFailureThreshold int

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimit          string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("EXCHANGE_API_KEY", "")
	viper.SetDefault("EXCHANGE_BASE_URL", "https://api.exchangeratesapi.io/v1")
	viper.SetDefault("EXCHANGE_FETCH_TIMEOUT", "10s")
	viper.SetDefault("BASE_CURRENCY", "ARS")
	viper.SetDefault("AUTO_DEBIT_FAILURE_THRESHOLD", 3)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.ExchangeAPIKey = viper.GetString("EXCHANGE_API_KEY")
	cfg.ExchangeBaseURL = viper.GetString("EXCHANGE_BASE_URL")

	fetchTimeoutStr := viper.GetString("EXCHANGE_FETCH_TIMEOUT")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		fetchTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for EXCHANGE_FETCH_TIMEOUT ('%s'). Defaulting to %s.\n", fetchTimeoutStr, fetchTimeout)
	}
	cfg.ExchangeFetchTimeout = fetchTimeout

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")

	cfg.AutoDebitFailureThreshold = viper.GetInt("AUTO_DEBIT_FAILURE_THRESHOLD")
	if cfg.AutoDebitFailureThreshold <= 0 {
		cfg.AutoDebitFailureThreshold = 3
	}

	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
