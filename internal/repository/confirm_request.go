package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
)

const confirmRequestColumns = `id, operation_type, sender_account_id, target_account_id, currency_name,
	amount, commission, status, created_at, completed_at`

type ConfirmRequestRepository struct {
	db *sql.DB
}

func NewConfirmRequestRepository(db *sql.DB) *ConfirmRequestRepository {
	return &ConfirmRequestRepository{db: db}
}

func (r *ConfirmRequestRepository) Create(ctx context.Context, tx *sql.Tx, req *domain.ConfirmRequest) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO confirm_requests (`+confirmRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.OperationType, req.SenderAccountID, req.TargetAccountID, req.CurrencyName,
		req.Amount, req.Commission, req.Status, req.CreatedAt, req.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ConfirmRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ConfirmRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+confirmRequestColumns+` FROM confirm_requests WHERE id = $1`, id,
	)
	req, err := scanConfirmRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return req, nil
}

func (r *ConfirmRequestRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.ConfirmRequest, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+confirmRequestColumns+` FROM confirm_requests WHERE id = $1 FOR UPDATE`, id,
	)
	req, err := scanConfirmRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return req, nil
}

// MarkCompleted moves a pending request to completed. A request that is no
// longer pending yields ErrRequestCompleted.
func (r *ConfirmRequestRepository) MarkCompleted(ctx context.Context, tx *sql.Tx, id uuid.UUID, completedAt time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE confirm_requests SET status = $1, completed_at = $2
		WHERE id = $3 AND status = $4`,
		domain.ConfirmStatusCompleted, completedAt, id, domain.ConfirmStatusPending,
	)
	if err != nil {
		return fmt.Errorf("MarkCompleted: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("MarkCompleted: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("MarkCompleted: %w", domain.ErrRequestCompleted)
	}
	return nil
}

func (r *ConfirmRequestRepository) ListByStatus(ctx context.Context, status domain.ConfirmStatus, limit, offset int) ([]domain.ConfirmRequest, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM confirm_requests WHERE status = $1`, status,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByStatus: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+confirmRequestColumns+` FROM confirm_requests
		WHERE status = $1 ORDER BY created_at LIMIT $2 OFFSET $3`,
		status, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByStatus: %w", err)
	}
	defer rows.Close()

	var requests []domain.ConfirmRequest
	for rows.Next() {
		req, err := scanConfirmRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListByStatus: scan: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListByStatus: rows: %w", err)
	}
	return requests, total, nil
}

func scanConfirmRequest(s scanner) (*domain.ConfirmRequest, error) {
	var (
		req    domain.ConfirmRequest
		target uuid.NullUUID
	)
	err := s.Scan(
		&req.ID, &req.OperationType, &req.SenderAccountID, &target, &req.CurrencyName,
		&req.Amount, &req.Commission, &req.Status, &req.CreatedAt, &req.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if target.Valid {
		req.TargetAccountID = &target.UUID
	}
	return &req, nil
}
