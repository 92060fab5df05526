package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Redis feed cache. Empty RedisAddr disables caching entirely.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Trade retry policy for contended purchases.
	TradeMaxAttempts    int
	TradeRetryBaseDelay time.Duration
	TradeRetryMaxDelay  time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "nakamart-backend")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TRADE_MAX_ATTEMPTS", 5)
	viper.SetDefault("TRADE_RETRY_BASE_DELAY", "25ms")
	viper.SetDefault("TRADE_RETRY_MAX_DELAY", "400ms")

	// Environment variables override defaults and .env file values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Falling back to the in-memory store.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	// Load JWT Secret
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1 // Default to 1 hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	// Load JWT Issuer
	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "nakamart-backend"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	tradeMaxAttempts := viper.GetInt("TRADE_MAX_ATTEMPTS")
	if tradeMaxAttempts < 1 {
		tradeMaxAttempts = 5
		log.Printf("Warning: Invalid value for TRADE_MAX_ATTEMPTS. Defaulting to %d.\n", tradeMaxAttempts)
	}

	tradeRetryBaseDelay, err := time.ParseDuration(viper.GetString("TRADE_RETRY_BASE_DELAY"))
	if err != nil || tradeRetryBaseDelay <= 0 {
		tradeRetryBaseDelay = 25 * time.Millisecond
		log.Printf("Warning: Invalid value for TRADE_RETRY_BASE_DELAY. Defaulting to %s.\n", tradeRetryBaseDelay.String())
	}

	tradeRetryMaxDelay, err := time.ParseDuration(viper.GetString("TRADE_RETRY_MAX_DELAY"))
	if err != nil || tradeRetryMaxDelay < tradeRetryBaseDelay {
		tradeRetryMaxDelay = 400 * time.Millisecond
		log.Printf("Warning: Invalid value for TRADE_RETRY_MAX_DELAY. Defaulting to %s.\n", tradeRetryMaxDelay.String())
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.TradeMaxAttempts = tradeMaxAttempts
	cfg.TradeRetryBaseDelay = tradeRetryBaseDelay
	cfg.TradeRetryMaxDelay = tradeRetryMaxDelay

	return cfg, nil
}
