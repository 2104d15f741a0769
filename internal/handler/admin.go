package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
	"github.com/josh-kwaku/wallet-ledger/internal/service"
	"github.com/josh-kwaku/wallet-ledger/internal/service/operation"
)

type confirmationService interface {
	ListPending(ctx context.Context, limit, offset int) ([]domain.ConfirmRequest, int, error)
	Confirm(ctx context.Context, requestID uuid.UUID) (*operation.ConfirmResult, error)
	Adjust(ctx context.Context, req operation.AdjustRequest) (*domain.Wallet, error)
}

type currencyAdmin interface {
	Add(ctx context.Context, name string) (*domain.Currency, error)
	Delete(ctx context.Context, name string) error
	SetLimits(ctx context.Context, name string, limits service.CurrencyLimits) (*domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
}

type commissionAdmin interface {
	SetForUser(ctx context.Context, userID uuid.UUID, values service.CommissionValues) (*domain.Commission, error)
	SetForCurrency(ctx context.Context, currencyName string, values service.CommissionValues) (*domain.Commission, error)
}

// AdminHandler serves the administrator surface. Every route is mounted
// behind middleware.RequireAdmin.
type AdminHandler struct {
	engine      confirmationService
	currencies  currencyAdmin
	commissions commissionAdmin
}

func NewAdminHandler(engine confirmationService, currencies currencyAdmin, commissions commissionAdmin) *AdminHandler {
	return &AdminHandler{engine: engine, currencies: currencies, commissions: commissions}
}

func (h *AdminHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset, fields := pagination(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	requests, total, err := h.engine.ListPending(r.Context(), limit, offset)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]confirmRequestDTO, len(requests))
	for i := range requests {
		dtos[i] = toConfirmRequestDTO(&requests[i])
	}
	RespondSuccess(w, http.StatusOK, Page{Items: dtos, Total: total, Limit: limit, Offset: offset})
}

func (h *AdminHandler) ConfirmRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrRequestNotFound, nil)
		return
	}

	res, err := h.engine.Confirm(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context()).Warn("confirmation failed", "request_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toConfirmRequestDTO(res.Request))
}

type adjustmentRequest struct {
	AccountID uuid.UUID       `json:"account_id"`
	Currency  string          `json:"currency"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r adjustmentRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountID == uuid.Nil {
		errs = append(errs, FieldError{Field: "account_id", Message: "required"})
	}
	if r.Currency == "" {
		errs = append(errs, FieldError{Field: "currency", Message: "required"})
	}
	if !domain.AdjustmentKind(r.Kind).IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "must be charge or withdraw"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	return errs
}

func (h *AdminHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	wallet, err := h.engine.Adjust(r.Context(), operation.AdjustRequest{
		AccountID:    req.AccountID,
		CurrencyName: strings.ToUpper(req.Currency),
		Kind:         domain.AdjustmentKind(req.Kind),
		Amount:       req.Amount,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toWalletDTO(wallet))
}

func (h *AdminHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencies.List(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]currencyDTO, len(currencies))
	for i := range currencies {
		dtos[i] = toCurrencyDTO(&currencies[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type addCurrencyRequest struct {
	Name string `json:"name"`
}

func (h *AdminHandler) AddCurrency(w http.ResponseWriter, r *http.Request) {
	var req addCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		RespondValidationError(w, []FieldError{{Field: "name", Message: "required"}})
		return
	}

	c, err := h.currencies.Add(r.Context(), req.Name)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toCurrencyDTO(c))
}

func (h *AdminHandler) DeleteCurrency(w http.ResponseWriter, r *http.Request) {
	if err := h.currencies.Delete(r.Context(), strings.ToUpper(r.PathValue("name"))); err != nil {
		RespondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type limitsRequest struct {
	LowerCommissionLimit *decimal.Decimal `json:"lower_commission_limit"`
	UpperCommissionLimit *decimal.Decimal `json:"upper_commission_limit"`
	ConfirmLimit         *decimal.Decimal `json:"confirm_limit"`
}

func (h *AdminHandler) SetLimits(w http.ResponseWriter, r *http.Request) {
	var req limitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	c, err := h.currencies.SetLimits(r.Context(), strings.ToUpper(r.PathValue("name")), service.CurrencyLimits{
		LowerCommission: req.LowerCommissionLimit,
		UpperCommission: req.UpperCommissionLimit,
		Confirm:         req.ConfirmLimit,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCurrencyDTO(c))
}

type commissionRequest struct {
	TransferCommission *decimal.Decimal `json:"transfer_commission"`
	DepositCommission  *decimal.Decimal `json:"deposit_commission"`
	WithdrawCommission *decimal.Decimal `json:"withdraw_commission"`
	IsAbsolute         *bool            `json:"is_absolute"`
}

func (r commissionRequest) values() service.CommissionValues {
	return service.CommissionValues{
		Transfer:   r.TransferCommission,
		Deposit:    r.DepositCommission,
		Withdraw:   r.WithdrawCommission,
		IsAbsolute: r.IsAbsolute,
	}
}

func (h *AdminHandler) SetUserCommission(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrUserNotFound, nil)
		return
	}

	var req commissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	c, err := h.commissions.SetForUser(r.Context(), userID, req.values())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCommissionDTO(c))
}

func (h *AdminHandler) SetCurrencyCommission(w http.ResponseWriter, r *http.Request) {
	var req commissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	c, err := h.commissions.SetForCurrency(r.Context(), strings.ToUpper(r.PathValue("name")), req.values())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCommissionDTO(c))
}
