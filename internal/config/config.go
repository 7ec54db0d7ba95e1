// internal/config/config.go
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process configuration, populated from the environment
// (and .env via godotenv in main).
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	StartingMoney int           `env:"STARTING_MONEY" envDefault:"1000"`
	SmallBlind    int           `env:"SMALL_BLIND" envDefault:"10"`
	ActionTimeout time.Duration `env:"ACTION_TIMEOUT" envDefault:"30s"`

	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL" envDefault:"30s"`
	TokenExpire       time.Duration `env:"TOKEN_EXPIRE" envDefault:"72h"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
