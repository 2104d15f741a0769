package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
)

type commissionUserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type commissionCurrencyGetter interface {
	GetByName(ctx context.Context, name string) (*domain.Currency, error)
}

type CommissionService struct {
	commissions commissionRepository
	users       commissionUserGetter
	currencies  commissionCurrencyGetter
}

func NewCommissionService(commissions commissionRepository, users commissionUserGetter, currencies commissionCurrencyGetter) *CommissionService {
	return &CommissionService{commissions: commissions, users: users, currencies: currencies}
}

// CommissionValues replaces every field of a commission record. Nil
// magnitudes fall through to the next scope at resolution time.
type CommissionValues struct {
	Transfer   *decimal.Decimal
	Deposit    *decimal.Decimal
	Withdraw   *decimal.Decimal
	IsAbsolute *bool
}

func (v CommissionValues) validate() error {
	for _, m := range []*decimal.Decimal{v.Transfer, v.Deposit, v.Withdraw} {
		if m != nil && m.IsNegative() {
			return domain.ErrInvalidCommission
		}
	}
	return nil
}

func (v CommissionValues) record() *domain.Commission {
	return &domain.Commission{
		ID:                 uuid.New(),
		TransferCommission: v.Transfer,
		DepositCommission:  v.Deposit,
		WithdrawCommission: v.Withdraw,
		IsAbsolute:         v.IsAbsolute,
	}
}

// SetForUser writes the per-user override, which takes precedence over any
// currency default.
func (s *CommissionService) SetForUser(ctx context.Context, userID uuid.UUID, values CommissionValues) (*domain.Commission, error) {
	if err := values.validate(); err != nil {
		return nil, fmt.Errorf("SetForUser: %w", err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("SetForUser: %w", notFoundAs(err, domain.ErrUserNotFound))
	}

	rec := values.record()
	rec.UserID = &userID
	saved, err := s.commissions.Upsert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("SetForUser: %w", err)
	}

	logging.FromContext(ctx).Info("user commission set", "user_id", userID)
	return saved, nil
}

func (s *CommissionService) SetForCurrency(ctx context.Context, currencyName string, values CommissionValues) (*domain.Commission, error) {
	if err := values.validate(); err != nil {
		return nil, fmt.Errorf("SetForCurrency: %w", err)
	}
	currency, err := s.currencies.GetByName(ctx, currencyName)
	if err != nil {
		return nil, fmt.Errorf("SetForCurrency: %w", notFoundAs(err, domain.ErrCurrencyNotFound))
	}

	rec := values.record()
	rec.CurrencyID = &currency.ID
	saved, err := s.commissions.Upsert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("SetForCurrency: %w", err)
	}

	logging.FromContext(ctx).Info("currency commission set", "currency", currency.Name)
	return saved, nil
}
