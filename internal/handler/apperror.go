package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid name or password"}
	ErrForbidden          = &AppError{http.StatusForbidden, "FORBIDDEN", "Administrator role required"}
	ErrRateLimited        = &AppError{http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound  = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrCurrencyNotFound = &AppError{http.StatusNotFound, "CURRENCY_NOT_FOUND", "Currency not found"}
	ErrUserNotFound     = &AppError{http.StatusNotFound, "USER_NOT_FOUND", "User not found"}
	ErrRequestNotFound  = &AppError{http.StatusNotFound, "CONFIRM_REQUEST_NOT_FOUND", "Confirm request not found"}

	ErrInsufficientFunds = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrMissingWallet     = &AppError{http.StatusUnprocessableEntity, "MISSING_WALLET", "No wallet for this currency"}
	ErrTargetRequired    = &AppError{http.StatusUnprocessableEntity, "TARGET_REQUIRED", "Transfer target is required"}
	ErrRecipientNotFound = &AppError{http.StatusUnprocessableEntity, "RECIPIENT_NOT_FOUND", "Recipient not found"}
	ErrSelfTransfer      = &AppError{http.StatusUnprocessableEntity, "SELF_TRANSFER_NOT_ALLOWED", "Cannot transfer to the same account"}
	ErrCommissionTooHigh = &AppError{http.StatusUnprocessableEntity, "COMMISSION_EXCEEDS_AMOUNT", "Commission exceeds the deposited amount"}
	ErrOperationDenied   = &AppError{http.StatusUnprocessableEntity, "OPERATION_DENIED", "Operation denied"}

	ErrCurrencyExists       = &AppError{http.StatusConflict, "CURRENCY_ALREADY_EXISTS", "Currency already exists"}
	ErrInvalidLimits        = &AppError{http.StatusBadRequest, "INVALID_LIMITS", "Lower commission limit exceeds upper limit"}
	ErrInvalidCommission    = &AppError{http.StatusBadRequest, "INVALID_COMMISSION", "Commission must not be negative"}
	ErrInvalidConfiguration = &AppError{http.StatusBadRequest, "INVALID_CONFIGURATION", "Invalid configuration"}

	ErrRequestCompleted      = &AppError{http.StatusConflict, "REQUEST_ALREADY_COMPLETED", "Confirm request already completed"}
	ErrVersionConflict       = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrUserExists            = &AppError{http.StatusConflict, "USER_ALREADY_EXISTS", "User name is taken"}
	ErrCurrencyInUse         = &AppError{http.StatusConflict, "CURRENCY_IN_USE", "Currency still has wallets"}
	ErrConflict              = &AppError{http.StatusConflict, "CONFLICT", "Conflict"}
	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
	ErrInvalidAmount         = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidOperation      = &AppError{http.StatusBadRequest, "INVALID_OPERATION", "Unknown operation type"}
)
