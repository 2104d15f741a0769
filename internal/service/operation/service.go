package operation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/config"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/metrics"
	"github.com/shopspring/decimal"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetForOwner(ctx context.Context, id, userID uuid.UUID) (*domain.Account, error)
	GetPrimaryByUser(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
}

type userRepo interface {
	GetByName(ctx context.Context, name string) (*domain.User, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.User, error)
}

type currencyRepo interface {
	GetByName(ctx context.Context, name string) (*domain.Currency, error)
}

type walletRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, accountID, currencyID uuid.UUID) (*domain.Wallet, error)
	EnsureForUpdate(ctx context.Context, tx *sql.Tx, accountID, currencyID uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, cashValue decimal.Decimal, newVersion int64) error
}

type commissionRepo interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Commission, error)
	GetByCurrency(ctx context.Context, currencyID uuid.UUID) (*domain.Commission, error)
}

type confirmRequestRepo interface {
	Create(ctx context.Context, tx *sql.Tx, req *domain.ConfirmRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ConfirmRequest, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.ConfirmRequest, error)
	MarkCompleted(ctx context.Context, tx *sql.Tx, id uuid.UUID, completedAt time.Time) error
	ListByStatus(ctx context.Context, status domain.ConfirmStatus, limit, offset int) ([]domain.ConfirmRequest, int, error)
}

type historyRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.HistoryEntry) error
}

// Service is the operation and confirmation engine. It holds no state
// between calls; every invocation re-reads wallets under a row lock.
type Service struct {
	accounts    accountRepo
	users       userRepo
	currencies  currencyRepo
	wallets     walletRepo
	commissions commissionRepo
	requests    confirmRequestRepo
	history     historyRepo
	db          txRunner
	config      *config.Config
	now         func() time.Time
}

func NewService(
	accounts accountRepo,
	users userRepo,
	currencies currencyRepo,
	wallets walletRepo,
	commissions commissionRepo,
	requests confirmRequestRepo,
	history historyRepo,
	db txRunner,
	cfg *config.Config,
) *Service {
	return &Service{
		accounts:    accounts,
		users:       users,
		currencies:  currencies,
		wallets:     wallets,
		commissions: commissions,
		requests:    requests,
		history:     history,
		db:          db,
		config:      cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]domain.ConfirmRequest, int, error) {
	requests, total, err := s.requests.ListByStatus(ctx, domain.ConfirmStatusPending, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListPending: %w", err)
	}
	return requests, total, nil
}

func (s *Service) depositMode() string {
	if s.config == nil || s.config.DepositCommissionMode == "" {
		return config.DepositModeDeduct
	}
	return s.config.DepositCommissionMode
}

// resolveCommission loads both commission scopes for the owner and currency.
// A missing record is not an error.
func (s *Service) resolveCommission(ctx context.Context, userID, currencyID uuid.UUID, op domain.OperationType) (CommissionSpec, error) {
	userRec, err := s.commissions.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return CommissionSpec{}, fmt.Errorf("resolveCommission: user: %w", err)
	}

	currencyRec, err := s.commissions.GetByCurrency(ctx, currencyID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return CommissionSpec{}, fmt.Errorf("resolveCommission: currency: %w", err)
	}

	return ResolveCommission(userRec, currencyRec, op), nil
}

// lockWallets takes row locks on the wallets of accountIDs in one currency,
// in ascending account order so that concurrent transfers between the same
// pair cannot deadlock. Accounts without a wallet are absent from the map.
func (s *Service) lockWallets(ctx context.Context, tx *sql.Tx, currencyID uuid.UUID, accountIDs ...uuid.UUID) (map[uuid.UUID]*domain.Wallet, error) {
	sorted := make([]uuid.UUID, len(accountIDs))
	copy(sorted, accountIDs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	result := make(map[uuid.UUID]*domain.Wallet, len(accountIDs))
	for _, id := range sorted {
		w, err := s.wallets.GetForUpdate(ctx, tx, id, currencyID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lockWallets: %w", err)
		}
		result[id] = w
	}
	return result, nil
}

type balanceDeltas struct {
	source decimal.Decimal
	target decimal.Decimal
}

// computeDeltas applies the sign convention of op. Reductions debit
// amount plus commission from the source; a transfer credits the bare amount
// to the target. Deposits either net the commission out or ignore it
// depending on mode.
func computeDeltas(op domain.OperationType, amount, commission decimal.Decimal, mode string) (balanceDeltas, error) {
	switch op {
	case domain.OperationDeposit:
		if mode == config.DepositModeRecordOnly {
			return balanceDeltas{source: amount}, nil
		}
		if commission.GreaterThan(amount) {
			return balanceDeltas{}, domain.ErrCommissionExceedsAmount
		}
		return balanceDeltas{source: amount.Sub(commission)}, nil
	case domain.OperationWithdraw:
		return balanceDeltas{source: amount.Add(commission).Neg()}, nil
	case domain.OperationTransfer:
		return balanceDeltas{source: amount.Add(commission).Neg(), target: amount}, nil
	default:
		return balanceDeltas{}, domain.ErrInvalidOperation
	}
}

// outcomeOf classifies err for metrics: business rule rejections versus
// infrastructure failures.
func outcomeOf(err error) string {
	for _, category := range []error{
		domain.ErrNotFound,
		domain.ErrOperationDenied,
		domain.ErrInsufficientFunds,
		domain.ErrInvalidConfiguration,
		domain.ErrConflict,
		domain.ErrInvalidAmount,
		domain.ErrInvalidOperation,
		domain.ErrInvalidRequest,
	} {
		if errors.Is(err, category) {
			return metrics.OutcomeRejected
		}
	}
	return metrics.OutcomeError
}

func notFoundAs(err, specific error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return specific
	}
	return err
}
