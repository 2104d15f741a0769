package operation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// ApplyDelta returns the wallet balance after adding delta. The wallet itself
// is never modified; a result below zero is rejected.
func ApplyDelta(wallet *domain.Wallet, delta decimal.Decimal) (decimal.Decimal, error) {
	next := wallet.CashValue.Add(delta)
	if next.IsNegative() {
		return wallet.CashValue, fmt.Errorf("ApplyDelta: %w", domain.ErrInsufficientFunds)
	}
	return next, nil
}

// applyToWallet persists delta on a wallet already locked in tx and updates
// the in-memory copy once the write succeeds.
func (s *Service) applyToWallet(ctx context.Context, tx *sql.Tx, wallet *domain.Wallet, delta decimal.Decimal) error {
	next, err := ApplyDelta(wallet, delta)
	if err != nil {
		return fmt.Errorf("applyToWallet: %w", err)
	}

	if err := s.wallets.UpdateBalance(ctx, tx, wallet.ID, next, wallet.Version+1); err != nil {
		return fmt.Errorf("applyToWallet: %w", err)
	}

	wallet.CashValue = next
	wallet.Version++
	return nil
}
