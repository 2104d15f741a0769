package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
	"github.com/josh-kwaku/wallet-ledger/internal/repository"
)

type seedConfig struct {
	DatabaseURL    string   `env:"DATABASE_URL,required,notEmpty"`
	MigrationsPath string   `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	AdminName      string   `env:"SEED_ADMIN_NAME" envDefault:"admin"`
	AdminPassword  string   `env:"SEED_ADMIN_PASSWORD,required,notEmpty"`
	Currencies     []string `env:"SEED_CURRENCIES" envSeparator:"," envDefault:"USD,EUR,GBP"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv         string   `env:"APP_ENV" envDefault:"development"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := env.ParseAs[seedConfig]()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("wallet-ledger-seed", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seed(ctx, cfg, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed complete")
}

func seed(ctx context.Context, cfg seedConfig, logger *slog.Logger) error {
	pool, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := seedAdmin(ctx, pool, cfg.AdminName, cfg.AdminPassword, logger); err != nil {
		return err
	}

	currencies := repository.NewCurrencyRepository(pool)
	for _, name := range cfg.Currencies {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		err := currencies.Create(ctx, &domain.Currency{ID: uuid.New(), Name: name})
		switch {
		case errors.Is(err, domain.ErrCurrencyExists):
			logger.Info("currency already present", "currency", name)
		case err != nil:
			return fmt.Errorf("seed currency %s: %w", name, err)
		default:
			logger.Info("currency created", "currency", name)
		}
	}
	return nil
}

// seedAdmin creates the administrator and its first account unless a user
// with that name already exists.
func seedAdmin(ctx context.Context, pool *sql.DB, name, password string, logger *slog.Logger) error {
	users := repository.NewUserRepository(pool)
	accounts := repository.NewAccountRepository(pool)

	existing, err := users.GetByName(ctx, name)
	if err == nil {
		logger.Info("admin already present", "name", existing.Name, "role", existing.Role)
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.UserRoleAdmin,
		CreatedAt:    now,
	}
	account := &domain.Account{ID: uuid.New(), UserID: admin.ID, CreatedAt: now}

	err = repository.NewDB(pool).WithTx(ctx, func(tx *sql.Tx) error {
		if err := users.Create(ctx, tx, admin); err != nil {
			return err
		}
		return accounts.Create(ctx, tx, account)
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logger.Info("admin created", "name", name, "user_id", admin.ID, "account_id", account.ID)
	return nil
}
