package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Page struct {
	Items  any `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// specificErrors is checked in order before falling back to the category of
// the error.
var specificErrors = []struct {
	err    error
	appErr *AppError
}{
	{domain.ErrAccountNotFound, ErrAccountNotFound},
	{domain.ErrCurrencyNotFound, ErrCurrencyNotFound},
	{domain.ErrUserNotFound, ErrUserNotFound},
	{domain.ErrRequestNotFound, ErrRequestNotFound},
	{domain.ErrMissingWallet, ErrMissingWallet},
	{domain.ErrTargetRequired, ErrTargetRequired},
	{domain.ErrTargetNotFound, ErrRecipientNotFound},
	{domain.ErrSelfTransfer, ErrSelfTransfer},
	{domain.ErrCommissionExceedsAmount, ErrCommissionTooHigh},
	{domain.ErrCurrencyExists, ErrCurrencyExists},
	{domain.ErrInvalidLimits, ErrInvalidLimits},
	{domain.ErrInvalidCommission, ErrInvalidCommission},
	{domain.ErrRequestCompleted, ErrRequestCompleted},
	{domain.ErrVersionConflict, ErrVersionConflict},
	{domain.ErrUserExists, ErrUserExists},
	{domain.ErrCurrencyInUse, ErrCurrencyInUse},
	{domain.ErrInvalidAmount, ErrInvalidAmount},
	{domain.ErrInvalidOperation, ErrInvalidOperation},
	{domain.ErrInvalidRequest, ErrInvalidRequest},
}

func RespondDomainError(w http.ResponseWriter, err error) {
	RespondAppError(w, appErrorFor(err), nil)
}

func appErrorFor(err error) *AppError {
	for _, m := range specificErrors {
		if errors.Is(err, m.err) {
			return m.appErr
		}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrResourceNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, domain.ErrOperationDenied):
		return ErrOperationDenied
	case errors.Is(err, domain.ErrInvalidConfiguration):
		return ErrInvalidConfiguration
	case errors.Is(err, domain.ErrConflict):
		return ErrConflict
	default:
		slog.Error("unhandled domain error", "error", err)
		return ErrInternalError
	}
}
