package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const currencyColumns = `id, name, lower_commission_limit, upper_commission_limit, confirm_limit`

type CurrencyRepository struct {
	db *sql.DB
}

func NewCurrencyRepository(db *sql.DB) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

func (r *CurrencyRepository) Create(ctx context.Context, c *domain.Currency) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO currencies (`+currencyColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name,
		nullDecimal(c.LowerCommissionLimit), nullDecimal(c.UpperCommissionLimit), nullDecimal(c.ConfirmLimit),
	)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return fmt.Errorf("Create: %w", domain.ErrCurrencyExists)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *CurrencyRepository) GetByName(ctx context.Context, name string) (*domain.Currency, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE name = $1`, name,
	)
	c, err := scanCurrency(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByName: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return c, nil
}

func (r *CurrencyRepository) List(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+currencyColumns+` FROM currencies ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		currencies = append(currencies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return currencies, nil
}

// UpdateLimits overwrites all three limits; nil clears the column.
func (r *CurrencyRepository) UpdateLimits(ctx context.Context, name string, lower, upper, confirm *decimal.Decimal) (*domain.Currency, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE currencies
		SET lower_commission_limit = $2, upper_commission_limit = $3, confirm_limit = $4
		WHERE name = $1
		RETURNING `+currencyColumns,
		name, nullDecimal(lower), nullDecimal(upper), nullDecimal(confirm),
	)
	c, err := scanCurrency(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("UpdateLimits: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("UpdateLimits: %w", err)
	}
	return c, nil
}

func (r *CurrencyRepository) DeleteByName(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM currencies WHERE name = $1`, name)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return fmt.Errorf("DeleteByName: %w", domain.ErrCurrencyInUse)
		}
		return fmt.Errorf("DeleteByName: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteByName: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("DeleteByName: %w", domain.ErrNotFound)
	}
	return nil
}

func scanCurrency(s scanner) (*domain.Currency, error) {
	var (
		c                     domain.Currency
		lower, upper, confirm decimal.NullDecimal
	)
	if err := s.Scan(&c.ID, &c.Name, &lower, &upper, &confirm); err != nil {
		return nil, err
	}
	c.LowerCommissionLimit = decimalPtr(lower)
	c.UpperCommissionLimit = decimalPtr(upper)
	c.ConfirmLimit = decimalPtr(confirm)
	return &c, nil
}
