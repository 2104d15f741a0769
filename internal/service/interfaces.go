package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type userRepository interface {
	Create(ctx context.Context, tx *sql.Tx, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type accountRepository interface {
	Create(ctx context.Context, tx *sql.Tx, account *domain.Account) error
	GetForOwner(ctx context.Context, id, userID uuid.UUID) (*domain.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
}

type walletLister interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Wallet, error)
}

type historyLister interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.HistoryEntry, int, error)
}

type currencyRepository interface {
	Create(ctx context.Context, c *domain.Currency) error
	GetByName(ctx context.Context, name string) (*domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
	UpdateLimits(ctx context.Context, name string, lower, upper, confirm *decimal.Decimal) (*domain.Currency, error)
	DeleteByName(ctx context.Context, name string) error
}

type commissionRepository interface {
	Upsert(ctx context.Context, c *domain.Commission) (*domain.Commission, error)
}

type idempotencyPurger interface {
	PurgeExpired(ctx context.Context, cutoff time.Time, batch int) (int64, error)
}
