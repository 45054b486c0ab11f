// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"speedo-transfer/internal/session"
	"speedo-transfer/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`

	// ExchangeRates overrides the built-in rate table, e.g. "EUR=0.90,GBP=0.79".
	// Rates are units of each currency per 1 USD.
	ExchangeRates string `env:"EXCHANGE_RATES"`

	DB    db.Config
	Redis session.Config
}

// LoadConfig loads configuration from an optional .env file and the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("couldn't read .env file: %w", err)
	}

	cfg := &AppConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}
	if cfg.Redis.TTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL %s: must be positive", cfg.Redis.TTL)
	}
	return cfg, nil
}
