package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const walletSelect = `SELECT w.id, w.account_id, w.currency_id, c.name, w.cash_value, w.version, w.updated_at
	FROM wallets w JOIN currencies c ON c.id = w.currency_id`

type WalletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Wallet, error) {
	rows, err := r.db.QueryContext(ctx,
		walletSelect+` WHERE w.account_id = $1 ORDER BY c.name`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByAccount: scan: %w", err)
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccount: rows: %w", err)
	}
	return wallets, nil
}

// GetForUpdate locks the wallet row for (accountID, currencyID) until tx ends.
func (r *WalletRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, accountID, currencyID uuid.UUID) (*domain.Wallet, error) {
	row := tx.QueryRowContext(ctx,
		walletSelect+` WHERE w.account_id = $1 AND w.currency_id = $2 FOR UPDATE OF w`,
		accountID, currencyID,
	)
	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return w, nil
}

// EnsureForUpdate creates an empty wallet when none exists and returns the
// locked row. Concurrent creators converge on the same row.
func (r *WalletRepository) EnsureForUpdate(ctx context.Context, tx *sql.Tx, accountID, currencyID uuid.UUID) (*domain.Wallet, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO wallets (id, account_id, currency_id, cash_value, version, updated_at)
		VALUES ($1, $2, $3, 0, 0, $4)
		ON CONFLICT (account_id, currency_id) DO NOTHING`,
		uuid.New(), accountID, currencyID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("EnsureForUpdate: insert: %w", err)
	}

	w, err := r.GetForUpdate(ctx, tx, accountID, currencyID)
	if err != nil {
		return nil, fmt.Errorf("EnsureForUpdate: %w", err)
	}
	return w, nil
}

func (r *WalletRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, cashValue decimal.Decimal, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE wallets SET cash_value = $1, version = $2, updated_at = now()
		WHERE id = $3 AND version = $4`,
		cashValue, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

func scanWallet(s scanner) (*domain.Wallet, error) {
	var w domain.Wallet
	err := s.Scan(&w.ID, &w.AccountID, &w.CurrencyID, &w.CurrencyName, &w.CashValue, &w.Version, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
