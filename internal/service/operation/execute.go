package operation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
	"github.com/josh-kwaku/wallet-ledger/internal/metrics"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusApplied Status = "applied"
	StatusQueued  Status = "queued"
)

type ExecuteRequest struct {
	UserID         uuid.UUID
	AccountID      uuid.UUID
	Type           domain.OperationType
	Amount         decimal.Decimal
	CurrencyName   string
	TargetUserName string
}

// Result describes what Execute did. Wallet and History are set when the
// operation was applied; Request is set when it was queued.
type Result struct {
	Status     Status
	Commission decimal.Decimal
	Wallet     *domain.Wallet
	History    *domain.HistoryEntry
	Request    *domain.ConfirmRequest
}

type executionPlan struct {
	req      ExecuteRequest
	currency *domain.Currency
	source   *domain.Account
	target   *domain.Account
}

func (s *Service) Execute(ctx context.Context, req ExecuteRequest) (*Result, error) {
	log := logging.FromContext(ctx)

	result, err := s.execute(ctx, req)
	if err != nil {
		metrics.RecordOperation(string(req.Type), outcomeOf(err))
		return nil, fmt.Errorf("Execute: %w", err)
	}

	metrics.RecordOperation(string(req.Type), string(result.Status))
	if result.Status == StatusApplied {
		metrics.RecordCommission(req.CurrencyName, result.Commission.InexactFloat64())
	}

	log.Info("operation executed",
		"operation", req.Type,
		"status", result.Status,
		"account_id", req.AccountID,
		"currency", req.CurrencyName,
		"amount", req.Amount,
		"commission", result.Commission,
	)
	return result, nil
}

func (s *Service) execute(ctx context.Context, req ExecuteRequest) (*Result, error) {
	if err := validateExecute(req); err != nil {
		return nil, err
	}

	plan, err := s.resolvePlan(ctx, req)
	if err != nil {
		return nil, err
	}

	var result *Result
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		result, txErr = s.executeInTx(ctx, tx, plan)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validateExecute(req ExecuteRequest) error {
	if !req.Type.IsValid() {
		return fmt.Errorf("validateExecute: %w", domain.ErrInvalidOperation)
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("validateExecute: %w", domain.ErrInvalidAmount)
	}
	return nil
}

func (s *Service) resolvePlan(ctx context.Context, req ExecuteRequest) (*executionPlan, error) {
	currency, err := s.currencies.GetByName(ctx, req.CurrencyName)
	if err != nil {
		return nil, fmt.Errorf("resolvePlan: %w", notFoundAs(err, domain.ErrCurrencyNotFound))
	}

	source, err := s.accounts.GetForOwner(ctx, req.AccountID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolvePlan: %w", notFoundAs(err, domain.ErrAccountNotFound))
	}

	plan := &executionPlan{req: req, currency: currency, source: source}
	if req.Type != domain.OperationTransfer {
		return plan, nil
	}

	target, err := s.resolveTarget(ctx, req.TargetUserName)
	if err != nil {
		return nil, fmt.Errorf("resolvePlan: %w", err)
	}
	if target.ID == source.ID {
		return nil, fmt.Errorf("resolvePlan: %w", domain.ErrSelfTransfer)
	}
	plan.target = target
	return plan, nil
}

func (s *Service) resolveTarget(ctx context.Context, userName string) (*domain.Account, error) {
	if userName == "" {
		return nil, fmt.Errorf("resolveTarget: %w", domain.ErrTargetRequired)
	}

	user, err := s.users.GetByName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("resolveTarget: %w", notFoundAs(err, domain.ErrTargetNotFound))
	}

	account, err := s.accounts.GetPrimaryByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("resolveTarget: %w", notFoundAs(err, domain.ErrTargetNotFound))
	}
	return account, nil
}

func (s *Service) executeInTx(ctx context.Context, tx *sql.Tx, plan *executionPlan) (*Result, error) {
	req := plan.req

	accountIDs := []uuid.UUID{plan.source.ID}
	if plan.target != nil {
		accountIDs = append(accountIDs, plan.target.ID)
	}
	locked, err := s.lockWallets(ctx, tx, plan.currency.ID, accountIDs...)
	if err != nil {
		return nil, fmt.Errorf("executeInTx: %w", err)
	}

	source := locked[plan.source.ID]
	if source == nil && req.Type.IsReduction() {
		return nil, fmt.Errorf("executeInTx: %w", domain.ErrMissingWallet)
	}

	spec, err := s.resolveCommission(ctx, plan.source.UserID, plan.currency.ID, req.Type)
	if err != nil {
		return nil, fmt.Errorf("executeInTx: %w", err)
	}
	commission := ComputeCommission(spec, req.Amount, plan.currency)

	deltas, err := computeDeltas(req.Type, req.Amount, commission, s.depositMode())
	if err != nil {
		return nil, fmt.Errorf("executeInTx: %w", err)
	}

	if ShouldDefer(plan.currency, req.Amount) {
		cr := s.newConfirmRequest(plan, commission)
		if err := s.requests.Create(ctx, tx, cr); err != nil {
			return nil, fmt.Errorf("executeInTx: create confirm request: %w", err)
		}
		return &Result{Status: StatusQueued, Commission: commission, Request: cr}, nil
	}

	if source == nil {
		source, err = s.wallets.EnsureForUpdate(ctx, tx, plan.source.ID, plan.currency.ID)
		if err != nil {
			return nil, fmt.Errorf("executeInTx: %w", err)
		}
	}
	if err := s.applyToWallet(ctx, tx, source, deltas.source); err != nil {
		return nil, fmt.Errorf("executeInTx: source: %w", err)
	}

	var targetID *uuid.UUID
	if plan.target != nil {
		if err := s.creditTarget(ctx, tx, locked[plan.target.ID], plan.target.ID, plan.currency.ID, deltas.target); err != nil {
			return nil, fmt.Errorf("executeInTx: %w", err)
		}
		targetID = &plan.target.ID
	}

	entry := &domain.HistoryEntry{
		ID:              uuid.New(),
		OperationType:   req.Type,
		UserID:          plan.source.UserID,
		SenderAccountID: plan.source.ID,
		TargetAccountID: targetID,
		Amount:          req.Amount,
		Commission:      commission,
		CurrencyName:    plan.currency.Name,
		CreatedAt:       s.now(),
	}
	if err := s.history.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("executeInTx: append history: %w", err)
	}

	return &Result{Status: StatusApplied, Commission: commission, Wallet: source, History: entry}, nil
}

// creditTarget applies delta to the transfer target, creating its wallet when
// the lock pass found none.
func (s *Service) creditTarget(ctx context.Context, tx *sql.Tx, wallet *domain.Wallet, accountID, currencyID uuid.UUID, delta decimal.Decimal) error {
	if wallet == nil {
		var err error
		wallet, err = s.wallets.EnsureForUpdate(ctx, tx, accountID, currencyID)
		if err != nil {
			return fmt.Errorf("creditTarget: %w", err)
		}
	}
	if err := s.applyToWallet(ctx, tx, wallet, delta); err != nil {
		return fmt.Errorf("creditTarget: %w", err)
	}
	return nil
}

func (s *Service) newConfirmRequest(plan *executionPlan, commission decimal.Decimal) *domain.ConfirmRequest {
	cr := &domain.ConfirmRequest{
		ID:              uuid.New(),
		OperationType:   plan.req.Type,
		SenderAccountID: plan.source.ID,
		CurrencyName:    plan.currency.Name,
		Amount:          plan.req.Amount,
		Commission:      commission,
		Status:          domain.ConfirmStatusPending,
		CreatedAt:       s.now(),
	}
	if plan.target != nil {
		targetID := plan.target.ID
		cr.TargetAccountID = &targetID
	}
	return cr
}
