package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type Server struct {
	HTTPAddr           string        `env:"TUTIEN_HTTP_ADDR" envDefault:":8080"`
	Store              string        `env:"TUTIEN_STORE" envDefault:"memory"`
	DatabaseDSN        string        `env:"TUTIEN_DB_DSN"`
	SQLitePath         string        `env:"TUTIEN_SQLITE_PATH" envDefault:"data/tutien.db"`
	MigrationsDir      string        `env:"TUTIEN_MIGRATIONS_DIR"`
	Timezone           string        `env:"TUTIEN_TIMEZONE" envDefault:"Local"`
	ExpirySchedule     string        `env:"TUTIEN_EXPIRY_SCHEDULE" envDefault:"@every 30s"`
	DailyResetSchedule string        `env:"TUTIEN_DAILY_RESET_SCHEDULE" envDefault:"@every 1m"`
	ReconcileWorkers   int           `env:"TUTIEN_RECONCILE_WORKERS" envDefault:"4"`
	ReconcileTimeout   time.Duration `env:"TUTIEN_RECONCILE_TIMEOUT" envDefault:"25s"`
	RandomSeed         int64         `env:"TUTIEN_RANDOM_SEED" envDefault:"0"`
	EquipmentFile      string        `env:"TUTIEN_EQUIPMENT_FILE"`
	LogLevel           string        `env:"TUTIEN_LOG_LEVEL" envDefault:"info"`

	location *time.Location
}

// LoadServer parses the environment and validates the result.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c *Server) validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseDSN) == "" {
			return fmt.Errorf("%w: TUTIEN_DB_DSN is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if c.ReconcileWorkers <= 0 {
		return fmt.Errorf("%w: TUTIEN_RECONCILE_WORKERS must be positive", ErrInvalidConfig)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	c.location = loc
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Location is the day-boundary zone resolved from Timezone, time.Local before validation.
func (c Server) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c Server) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}
