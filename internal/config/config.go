// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the explicit configuration passed to the server's components;
// nothing reads the environment after startup.
type Config struct {
	Addr        string        `env:"ADDR" envDefault:":8080"`
	DatabaseDSN string        `env:"DATABASE_DSN,required,notEmpty"`
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`

	// Login rate limiting.
	LoginWindow   time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`
	LoginMaxFails int           `env:"LOGIN_MAX_FAILS" envDefault:"5"`
	LoginBlockFor time.Duration `env:"LOGIN_BLOCK_FOR" envDefault:"15m"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be positive")
	}
	return cfg, nil
}
