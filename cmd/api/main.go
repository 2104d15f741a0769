package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/josh-kwaku/wallet-ledger/internal/config"
	"github.com/josh-kwaku/wallet-ledger/internal/handler"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
	"github.com/josh-kwaku/wallet-ledger/internal/middleware"
	"github.com/josh-kwaku/wallet-ledger/internal/repository"
	"github.com/josh-kwaku/wallet-ledger/internal/service"
	"github.com/josh-kwaku/wallet-ledger/internal/service/operation"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("wallet-ledger", cfg.LogLevel, cfg.AppEnv)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	pool, err := repository.NewPostgresDB(connectCtx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied", "path", cfg.MigrationsPath)

	db := repository.NewDB(pool)
	users := repository.NewUserRepository(pool)
	accounts := repository.NewAccountRepository(pool)
	currencies := repository.NewCurrencyRepository(pool)
	wallets := repository.NewWalletRepository(pool)
	commissions := repository.NewCommissionRepository(pool)
	requests := repository.NewConfirmRequestRepository(pool)
	history := repository.NewHistoryRepository(pool)
	idempotency := repository.NewIdempotencyRepository(pool)

	engine := operation.NewService(accounts, users, currencies, wallets, commissions, requests, history, db, cfg)
	accountSvc := service.NewAccountService(users, accounts, wallets, history, db)
	currencySvc := service.NewCurrencyService(currencies)
	commissionSvc := service.NewCommissionService(commissions, users, currencies)

	janitor := service.NewIdempotencyJanitor(idempotency, logger.With("component", "idempotency_janitor"), cfg.IdempotencyCleanupInterval)
	go janitor.Start(ctx)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, 10*time.Minute)
	go limiter.Run(ctx, time.Minute)

	routes := router{
		auth:        handler.NewAuthHandler(users, accountSvc, cfg.JWTSecret, cfg.JWTExpiry),
		accounts:    handler.NewAccountHandler(accountSvc),
		operations:  handler.NewOperationHandler(engine),
		admin:       handler.NewAdminHandler(engine, currencySvc, commissionSvc),
		health:      handler.NewHealthHandler(pool, version),
		jwtSecret:   cfg.JWTSecret,
		limiter:     limiter,
		idempotency: middleware.Idempotency(idempotency, cfg.IdempotencyTTL),
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           routes.handler(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", addr, "version", version, "deposit_commission_mode", cfg.DepositCommissionMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

type router struct {
	auth        *handler.AuthHandler
	accounts    *handler.AccountHandler
	operations  *handler.OperationHandler
	admin       *handler.AdminHandler
	health      *handler.HealthHandler
	jwtSecret   string
	limiter     *middleware.RateLimiter
	idempotency func(http.Handler) http.Handler
}

func (rt router) handler() http.Handler {
	mux := http.NewServeMux()

	authed := middleware.Auth(rt.jwtSecret)
	user := func(h http.HandlerFunc) http.Handler { return authed(h) }
	admin := func(h http.HandlerFunc) http.Handler { return authed(middleware.RequireAdmin(h)) }

	mux.HandleFunc("GET /health", rt.health.Liveness)
	mux.HandleFunc("GET /health/ready", rt.health.Readiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /api/v1/auth/register", rt.limiter.Limit(http.HandlerFunc(rt.auth.Register)))
	mux.Handle("POST /api/v1/auth/login", rt.limiter.Limit(http.HandlerFunc(rt.auth.Login)))

	mux.Handle("POST /api/v1/accounts", user(rt.accounts.Create))
	mux.Handle("GET /api/v1/accounts", user(rt.accounts.List))
	mux.Handle("GET /api/v1/accounts/{id}", user(rt.accounts.Get))
	mux.Handle("GET /api/v1/accounts/{id}/history", user(rt.accounts.History))
	mux.Handle("POST /api/v1/accounts/{id}/operations", authed(rt.idempotency(http.HandlerFunc(rt.operations.Execute))))

	mux.Handle("GET /api/v1/admin/requests", admin(rt.admin.ListRequests))
	mux.Handle("POST /api/v1/admin/requests/{id}/confirm", admin(rt.admin.ConfirmRequest))
	mux.Handle("POST /api/v1/admin/adjustments", admin(rt.admin.Adjust))
	mux.Handle("GET /api/v1/admin/currencies", admin(rt.admin.ListCurrencies))
	mux.Handle("POST /api/v1/admin/currencies", admin(rt.admin.AddCurrency))
	mux.Handle("DELETE /api/v1/admin/currencies/{name}", admin(rt.admin.DeleteCurrency))
	mux.Handle("PUT /api/v1/admin/currencies/{name}/limits", admin(rt.admin.SetLimits))
	mux.Handle("PUT /api/v1/admin/commissions/users/{id}", admin(rt.admin.SetUserCommission))
	mux.Handle("PUT /api/v1/admin/commissions/currencies/{name}", admin(rt.admin.SetCurrencyCommission))

	return middleware.Tracing(middleware.Logging(middleware.Metrics(middleware.Recovery(mux))))
}
