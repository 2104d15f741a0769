package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/service/operation"
)

type operationExecutor interface {
	Execute(ctx context.Context, req operation.ExecuteRequest) (*operation.Result, error)
}

type OperationHandler struct {
	engine operationExecutor
}

func NewOperationHandler(engine operationExecutor) *OperationHandler {
	return &OperationHandler{engine: engine}
}

type executeRequest struct {
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	TargetUser string          `json:"target_user"`
}

func (r executeRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	} else if !domain.OperationType(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be deposit, withdraw, or transfer"})
	}

	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	} else if r.Amount.Exponent() < -4 {
		errs = append(errs, FieldError{Field: "amount", Message: "at most 4 decimal places"})
	}

	if r.Currency == "" {
		errs = append(errs, FieldError{Field: "currency", Message: "required"})
	}

	if domain.OperationType(r.Type) == domain.OperationTransfer && strings.TrimSpace(r.TargetUser) == "" {
		errs = append(errs, FieldError{Field: "target_user", Message: "required for transfer"})
	}

	return errs
}

type operationResultDTO struct {
	Status     string             `json:"status"`
	Commission decimal.Decimal    `json:"commission"`
	Wallet     *walletDTO         `json:"wallet,omitempty"`
	History    *historyDTO        `json:"history,omitempty"`
	Request    *confirmRequestDTO `json:"confirm_request,omitempty"`
}

// Execute answers 200 when the operation was applied and 202 when it was
// queued for administrator confirmation.
func (h *OperationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, accountID, appErr := accountFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.engine.Execute(r.Context(), operation.ExecuteRequest{
		UserID:         userID,
		AccountID:      accountID,
		Type:           domain.OperationType(req.Type),
		Amount:         req.Amount,
		CurrencyName:   strings.ToUpper(req.Currency),
		TargetUserName: strings.TrimSpace(req.TargetUser),
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dto := operationResultDTO{Status: string(res.Status), Commission: res.Commission}
	if res.Wallet != nil {
		wallet := toWalletDTO(res.Wallet)
		dto.Wallet = &wallet
	}
	if res.History != nil {
		entry := toHistoryDTO(res.History)
		dto.History = &entry
	}
	if res.Request != nil {
		cr := toConfirmRequestDTO(res.Request)
		dto.Request = &cr
	}

	status := http.StatusOK
	if res.Status == operation.StatusQueued {
		status = http.StatusAccepted
	}
	RespondSuccess(w, status, dto)
}
