package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DepositModeDeduct     = "deduct"
	DepositModeRecordOnly = "record_only"
)

type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry      time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
	Port           int           `env:"PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv         string        `env:"APP_ENV" envDefault:"production"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	// DepositCommissionMode decides whether deposit commission is taken out
	// of the credited amount ("deduct") or only recorded ("record_only").
	DepositCommissionMode string `env:"DEPOSIT_COMMISSION_MODE" envDefault:"deduct"`

	IdempotencyTTL             time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	IdempotencyCleanupInterval time.Duration `env:"IDEMPOTENCY_CLEANUP_INTERVAL" envDefault:"10m"`

	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

// Load reads an optional .env file and then the process environment, which
// takes precedence over values from the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: dotenv: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	switch c.DepositCommissionMode {
	case DepositModeDeduct, DepositModeRecordOnly:
	default:
		return fmt.Errorf("DEPOSIT_COMMISSION_MODE must be %q or %q, got %q",
			DepositModeDeduct, DepositModeRecordOnly, c.DepositCommissionMode)
	}
	if c.IdempotencyCleanupInterval <= 0 {
		return errors.New("IDEMPOTENCY_CLEANUP_INTERVAL must be positive")
	}
	return nil
}
