package operation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
	"github.com/josh-kwaku/wallet-ledger/internal/metrics"
	"github.com/shopspring/decimal"
)

type AdjustRequest struct {
	AccountID    uuid.UUID
	CurrencyName string
	Kind         domain.AdjustmentKind
	Amount       decimal.Decimal
}

// Adjust changes a wallet balance directly on behalf of an administrator.
// No commission is charged, nothing is queued and no history is written.
func (s *Service) Adjust(ctx context.Context, req AdjustRequest) (*domain.Wallet, error) {
	log := logging.FromContext(ctx)

	wallet, err := s.adjust(ctx, req)
	if err != nil {
		metrics.RecordAdjustment(string(req.Kind), outcomeOf(err))
		return nil, fmt.Errorf("Adjust: %w", err)
	}

	metrics.RecordAdjustment(string(req.Kind), metrics.OutcomeApplied)
	log.Info("wallet adjusted",
		"kind", req.Kind,
		"account_id", req.AccountID,
		"currency", req.CurrencyName,
		"amount", req.Amount,
		"cash_value", wallet.CashValue,
	)
	return wallet, nil
}

func (s *Service) adjust(ctx context.Context, req AdjustRequest) (*domain.Wallet, error) {
	if !req.Kind.IsValid() {
		return nil, domain.ErrInvalidRequest
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	currency, err := s.currencies.GetByName(ctx, req.CurrencyName)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrCurrencyNotFound)
	}

	if _, err := s.accounts.GetByID(ctx, req.AccountID); err != nil {
		return nil, notFoundAs(err, domain.ErrAccountNotFound)
	}

	var wallet *domain.Wallet
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		wallet, txErr = s.adjustInTx(ctx, tx, req, currency.ID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *Service) adjustInTx(ctx context.Context, tx *sql.Tx, req AdjustRequest, currencyID uuid.UUID) (*domain.Wallet, error) {
	var (
		wallet *domain.Wallet
		delta  decimal.Decimal
		err    error
	)

	switch req.Kind {
	case domain.AdjustmentCharge:
		wallet, err = s.wallets.EnsureForUpdate(ctx, tx, req.AccountID, currencyID)
		delta = req.Amount
	case domain.AdjustmentWithdraw:
		wallet, err = s.wallets.GetForUpdate(ctx, tx, req.AccountID, currencyID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("adjustInTx: %w", domain.ErrMissingWallet)
		}
		delta = req.Amount.Neg()
	}
	if err != nil {
		return nil, fmt.Errorf("adjustInTx: %w", err)
	}

	if err := s.applyToWallet(ctx, tx, wallet, delta); err != nil {
		return nil, fmt.Errorf("adjustInTx: %w", err)
	}
	return wallet, nil
}
