package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required,oneof=development staging production test"`
	Port        string `validate:"required,numeric"`

	// Sandbox selects plain http for translated request URLs (ARC_SANDBOX)
	Sandbox bool

	// Mode is handed to the web framework unchanged (APP_MODE)
	Mode string `validate:"required"`

	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`

	JWT        JWTConfig
	RateLimit  RateLimitConfig
	HTTP       HTTPConfig
	Serverless ServerlessConfig
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret      string
	ExpiryHours int `validate:"gte=1"`
	Issuer      string
}

// RateLimitConfig holds router rate limiting configuration. A zero rate
// disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=0"`
}

// HTTPConfig holds request handling limits
type HTTPConfig struct {
	MaxBodyBytes    int64 `validate:"gt=0"`
	CORSAllowOrigin string
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "3333")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("ARC_SANDBOX", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("JWT_ISSUER", "lambda-router")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("MAX_BODY_BYTES", 6*1024*1024)
	v.SetDefault("CORS_ALLOW_ORIGIN", "*")
	v.SetDefault("STAGE", "dev")

	environment := v.GetString("ENVIRONMENT")
	mode := v.GetString("APP_MODE")
	if mode == "" {
		mode = environment
	}

	config := &Config{
		Environment: environment,
		Port:        v.GetString("PORT"),
		Sandbox:     isTruthy(v.GetString("ARC_SANDBOX")),
		Mode:        mode,
		LogLevel:    strings.ToLower(v.GetString("LOG_LEVEL")),
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
			Issuer:      v.GetString("JWT_ISSUER"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		HTTP: HTTPConfig{
			MaxBodyBytes:    v.GetInt64("MAX_BODY_BYTES"),
			CORSAllowOrigin: v.GetString("CORS_ALLOW_ORIGIN"),
		},
		Serverless: loadServerless(v),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for missing or out of range values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Environment == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("invalid configuration: JWT_SECRET is required in production")
	}
	return nil
}

// IsProduction returns true for the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// isTruthy treats any non-empty value other than an explicit false as set,
// so ARC_SANDBOX=1 and ARC_SANDBOX=yes both enable sandbox mode
func isTruthy(value string) bool {
	if value == "" {
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return true
}
