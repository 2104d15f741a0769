package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
)

type CurrencyService struct {
	currencies currencyRepository
}

func NewCurrencyService(currencies currencyRepository) *CurrencyService {
	return &CurrencyService{currencies: currencies}
}

// CurrencyLimits holds the three optional per-currency thresholds. A nil
// field clears the stored value.
type CurrencyLimits struct {
	LowerCommission *decimal.Decimal
	UpperCommission *decimal.Decimal
	Confirm         *decimal.Decimal
}

func (l CurrencyLimits) validate() error {
	for _, v := range []*decimal.Decimal{l.LowerCommission, l.UpperCommission, l.Confirm} {
		if v != nil && v.IsNegative() {
			return domain.ErrInvalidLimits
		}
	}
	if l.LowerCommission != nil && l.UpperCommission != nil && l.LowerCommission.GreaterThan(*l.UpperCommission) {
		return domain.ErrInvalidLimits
	}
	return nil
}

func (s *CurrencyService) Add(ctx context.Context, name string) (*domain.Currency, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("Add: %w", domain.ErrInvalidRequest)
	}

	c := &domain.Currency{ID: uuid.New(), Name: name}
	if err := s.currencies.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("Add: %w", err)
	}

	logging.FromContext(ctx).Info("currency added", "currency", name)
	return c, nil
}

// Delete removes a currency and its commission defaults. Currencies that
// still back a wallet cannot be removed.
func (s *CurrencyService) Delete(ctx context.Context, name string) error {
	if err := s.currencies.DeleteByName(ctx, name); err != nil {
		return fmt.Errorf("Delete: %w", notFoundAs(err, domain.ErrCurrencyNotFound))
	}

	logging.FromContext(ctx).Info("currency deleted", "currency", name)
	return nil
}

func (s *CurrencyService) SetLimits(ctx context.Context, name string, limits CurrencyLimits) (*domain.Currency, error) {
	if err := limits.validate(); err != nil {
		return nil, fmt.Errorf("SetLimits: %w", err)
	}

	c, err := s.currencies.UpdateLimits(ctx, name, limits.LowerCommission, limits.UpperCommission, limits.Confirm)
	if err != nil {
		return nil, fmt.Errorf("SetLimits: %w", notFoundAs(err, domain.ErrCurrencyNotFound))
	}

	logging.FromContext(ctx).Info("currency limits updated",
		"currency", name,
		"lower_commission_limit", limits.LowerCommission,
		"upper_commission_limit", limits.UpperCommission,
		"confirm_limit", limits.Confirm,
	)
	return c, nil
}

func (s *CurrencyService) List(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return currencies, nil
}
