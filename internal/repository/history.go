package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
)

const historyColumns = `id, operation_type, user_id, sender_account_id, target_account_id,
	amount, commission, currency_name, created_at`

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.HistoryEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO operation_history (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.OperationType, entry.UserID, entry.SenderAccountID, entry.TargetAccountID,
		entry.Amount, entry.Commission, entry.CurrencyName, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ListByAccount returns entries where the account was either sender or
// target, newest first, plus the total count.
func (r *HistoryRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.HistoryEntry, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM operation_history
		WHERE sender_account_id = $1 OR target_account_id = $1`, accountID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByAccount: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+historyColumns+` FROM operation_history
		WHERE sender_account_id = $1 OR target_account_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByAccount: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListByAccount: scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListByAccount: rows: %w", err)
	}
	return entries, total, nil
}

func scanHistoryEntry(s scanner) (*domain.HistoryEntry, error) {
	var (
		e      domain.HistoryEntry
		target uuid.NullUUID
	)
	err := s.Scan(
		&e.ID, &e.OperationType, &e.UserID, &e.SenderAccountID, &target,
		&e.Amount, &e.Commission, &e.CurrencyName, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if target.Valid {
		e.TargetAccountID = &target.UUID
	}
	return &e, nil
}
