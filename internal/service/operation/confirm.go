package operation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
	"github.com/josh-kwaku/wallet-ledger/internal/metrics"
)

type ConfirmResult struct {
	Request *domain.ConfirmRequest
	Wallet  *domain.Wallet
	History *domain.HistoryEntry
}

// Confirm finalizes a pending request with the amount and commission stored
// at submission. The status transition and the balance change commit
// together; on any failure the request stays pending.
func (s *Service) Confirm(ctx context.Context, requestID uuid.UUID) (*ConfirmResult, error) {
	log := logging.FromContext(ctx)

	result, err := s.confirm(ctx, requestID)
	if err != nil {
		metrics.RecordConfirmation(confirmLabel(result), outcomeOf(err))
		return nil, fmt.Errorf("Confirm: %w", err)
	}

	req := result.Request
	metrics.RecordConfirmation(string(req.OperationType), metrics.OutcomeApplied)
	metrics.RecordCommission(req.CurrencyName, req.Commission.InexactFloat64())

	log.Info("confirm request completed",
		"request_id", req.ID,
		"operation", req.OperationType,
		"sender_account", req.SenderAccountID,
		"currency", req.CurrencyName,
		"amount", req.Amount,
		"commission", req.Commission,
	)
	return result, nil
}

func (s *Service) confirm(ctx context.Context, requestID uuid.UUID) (*ConfirmResult, error) {
	pending, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrRequestNotFound)
	}
	partial := &ConfirmResult{Request: pending}
	if pending.Status != domain.ConfirmStatusPending {
		return partial, domain.ErrRequestCompleted
	}

	currency, err := s.currencies.GetByName(ctx, pending.CurrencyName)
	if err != nil {
		return partial, notFoundAs(err, domain.ErrCurrencyNotFound)
	}

	owner, err := s.users.GetByAccountID(ctx, pending.SenderAccountID)
	if err != nil {
		return partial, notFoundAs(err, domain.ErrUserNotFound)
	}

	var result *ConfirmResult
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		result, txErr = s.confirmInTx(ctx, tx, requestID, currency, owner)
		return txErr
	})
	if err != nil {
		return partial, err
	}
	return result, nil
}

func (s *Service) confirmInTx(ctx context.Context, tx *sql.Tx, requestID uuid.UUID, currency *domain.Currency, owner *domain.User) (*ConfirmResult, error) {
	req, err := s.requests.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, fmt.Errorf("confirmInTx: %w", notFoundAs(err, domain.ErrRequestNotFound))
	}
	if req.Status != domain.ConfirmStatusPending {
		return nil, fmt.Errorf("confirmInTx: %w", domain.ErrRequestCompleted)
	}

	deltas, err := computeDeltas(req.OperationType, req.Amount, req.Commission, s.depositMode())
	if err != nil {
		return nil, fmt.Errorf("confirmInTx: %w", err)
	}

	accountIDs := []uuid.UUID{req.SenderAccountID}
	if req.TargetAccountID != nil {
		accountIDs = append(accountIDs, *req.TargetAccountID)
	}
	locked, err := s.lockWallets(ctx, tx, currency.ID, accountIDs...)
	if err != nil {
		return nil, fmt.Errorf("confirmInTx: %w", err)
	}

	source := locked[req.SenderAccountID]
	if source == nil {
		if req.OperationType.IsReduction() {
			return nil, fmt.Errorf("confirmInTx: %w", domain.ErrMissingWallet)
		}
		source, err = s.wallets.EnsureForUpdate(ctx, tx, req.SenderAccountID, currency.ID)
		if err != nil {
			return nil, fmt.Errorf("confirmInTx: %w", err)
		}
	}
	if err := s.applyToWallet(ctx, tx, source, deltas.source); err != nil {
		return nil, fmt.Errorf("confirmInTx: source: %w", err)
	}

	if req.OperationType == domain.OperationTransfer && req.TargetAccountID != nil {
		targetID := *req.TargetAccountID
		if err := s.creditTarget(ctx, tx, locked[targetID], targetID, currency.ID, deltas.target); err != nil {
			return nil, fmt.Errorf("confirmInTx: %w", err)
		}
	}

	completedAt := s.now()
	if err := s.requests.MarkCompleted(ctx, tx, req.ID, completedAt); err != nil {
		return nil, fmt.Errorf("confirmInTx: %w", err)
	}
	req.Status = domain.ConfirmStatusCompleted
	req.CompletedAt = &completedAt

	entry := &domain.HistoryEntry{
		ID:              uuid.New(),
		OperationType:   req.OperationType,
		UserID:          owner.ID,
		SenderAccountID: req.SenderAccountID,
		TargetAccountID: req.TargetAccountID,
		Amount:          req.Amount,
		Commission:      req.Commission,
		CurrencyName:    req.CurrencyName,
		CreatedAt:       completedAt,
	}
	if err := s.history.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("confirmInTx: append history: %w", err)
	}

	return &ConfirmResult{Request: req, Wallet: source, History: entry}, nil
}

func confirmLabel(r *ConfirmResult) string {
	if r == nil || r.Request == nil {
		return "unknown"
	}
	return string(r.Request.OperationType)
}
