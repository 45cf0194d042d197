// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Ledger and statistics backends. Statistics support memory and sqlite.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the process configuration. Every field maps to a NEOBABU_* variable.
type Config struct {
	LogLevel  string `env:"NEOBABU_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"NEOBABU_LOG_FORMAT" envDefault:"text"`

	LedgerBackend string `env:"NEOBABU_LEDGER_BACKEND" envDefault:"memory"`
	SQLitePath    string `env:"NEOBABU_SQLITE_PATH" envDefault:"neobabu.db"`
	RedisAddr     string `env:"NEOBABU_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"NEOBABU_REDIS_PASSWORD"`
	RedisDB       int    `env:"NEOBABU_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"NEOBABU_REDIS_PREFIX" envDefault:"neobabu:ledger:"`
	PostgresDSN   string `env:"NEOBABU_POSTGRES_DSN"`

	StatsBackend string `env:"NEOBABU_STATS_BACKEND" envDefault:"memory"`

	HTTPAddr       string        `env:"NEOBABU_HTTP_ADDR" envDefault:":8080"`
	SessionTimeout time.Duration `env:"NEOBABU_SESSION_TIMEOUT" envDefault:"5m"`
	StartingGrant  int64         `env:"NEOBABU_STARTING_GRANT" envDefault:"100"`
}

// Load reads envFile when it exists and then parses the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.LedgerBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("NEOBABU_POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown ledger backend %q", c.LedgerBackend)
	}
	switch c.StatsBackend {
	case "", BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown stats backend %q", c.StatsBackend)
	}
	if c.SessionTimeout <= 0 {
		return errors.New("NEOBABU_SESSION_TIMEOUT must be positive")
	}
	if c.StartingGrant < 0 {
		return errors.New("NEOBABU_STARTING_GRANT must not be negative")
	}
	return nil
}
