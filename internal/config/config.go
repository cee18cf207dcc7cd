// Package config loads server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/hearthforge/rulebook-api/internal/errors"
)

// Config holds the rulebook API server configuration
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// DataBaseURL is the root URL the raw JSON rulebook resources are
	// fetched from; the loader appends "/<resource>.json".
	DataBaseURL  string        `env:"RULEBOOK_DATA_URL" envDefault:"https://data.hearthforge.dev/rulebook"`
	FetchTimeout time.Duration `env:"RULEBOOK_FETCH_TIMEOUT" envDefault:"30s"`
	MaxRetries   int           `env:"RULEBOOK_MAX_RETRIES" envDefault:"3"`

	PrimaryTTL time.Duration `env:"CACHE_PRIMARY_TTL" envDefault:"1h"`
	FluffTTL   time.Duration `env:"CACHE_FLUFF_TTL" envDefault:"2h"`
	CacheSize  int           `env:"CACHE_SIZE" envDefault:"50"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("RULEBOOK_DATA_URL", cfg.DataBaseURL, vb)
	errors.ValidateRange("CACHE_SIZE", cfg.CacheSize, 1, 1000, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
