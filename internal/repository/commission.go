package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const commissionColumns = `id, user_id, currency_id, transfer_commission, deposit_commission,
	withdraw_commission, is_absolute`

type CommissionRepository struct {
	db *sql.DB
}

func NewCommissionRepository(db *sql.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Commission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE user_id = $1`, userID,
	)
	c, err := scanCommission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByUser: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByUser: %w", err)
	}
	return c, nil
}

func (r *CommissionRepository) GetByCurrency(ctx context.Context, currencyID uuid.UUID) (*domain.Commission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE currency_id = $1`, currencyID,
	)
	c, err := scanCommission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByCurrency: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByCurrency: %w", err)
	}
	return c, nil
}

// Upsert writes every field of c, keyed on whichever scope c carries.
func (r *CommissionRepository) Upsert(ctx context.Context, c *domain.Commission) (*domain.Commission, error) {
	conflict := "currency_id"
	if c.UserID != nil {
		conflict = "user_id"
	}

	var isAbsolute sql.NullBool
	if c.IsAbsolute != nil {
		isAbsolute = sql.NullBool{Bool: *c.IsAbsolute, Valid: true}
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO commissions (`+commissionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (`+conflict+`) DO UPDATE SET
			transfer_commission = EXCLUDED.transfer_commission,
			deposit_commission = EXCLUDED.deposit_commission,
			withdraw_commission = EXCLUDED.withdraw_commission,
			is_absolute = EXCLUDED.is_absolute
		RETURNING `+commissionColumns,
		c.ID, c.UserID, c.CurrencyID,
		nullDecimal(c.TransferCommission), nullDecimal(c.DepositCommission), nullDecimal(c.WithdrawCommission),
		isAbsolute,
	)
	saved, err := scanCommission(row)
	if err != nil {
		return nil, fmt.Errorf("Upsert: %w", err)
	}
	return saved, nil
}

func scanCommission(s scanner) (*domain.Commission, error) {
	var (
		c                           domain.Commission
		userID, currencyID          uuid.NullUUID
		transfer, deposit, withdraw decimal.NullDecimal
		isAbsolute                  sql.NullBool
	)
	err := s.Scan(&c.ID, &userID, &currencyID, &transfer, &deposit, &withdraw, &isAbsolute)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		c.UserID = &userID.UUID
	}
	if currencyID.Valid {
		c.CurrencyID = &currencyID.UUID
	}
	c.TransferCommission = decimalPtr(transfer)
	c.DepositCommission = decimalPtr(deposit)
	c.WithdrawCommission = decimalPtr(withdraw)
	if isAbsolute.Valid {
		c.IsAbsolute = &isAbsolute.Bool
	}
	return &c, nil
}
