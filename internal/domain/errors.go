package domain

import (
	"errors"
	"fmt"
)

// Outcome categories. Every specific error below wraps exactly one of these so
// callers can branch with errors.Is on the category alone.
var (
	ErrNotFound             = errors.New("not found")
	ErrOperationDenied      = errors.New("operation denied")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrConflict             = errors.New("conflict")
)

var (
	ErrAccountNotFound  = fmt.Errorf("account %w", ErrNotFound)
	ErrCurrencyNotFound = fmt.Errorf("currency %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrRequestNotFound  = fmt.Errorf("confirm request %w", ErrNotFound)

	ErrMissingWallet           = fmt.Errorf("%w: no wallet for currency", ErrOperationDenied)
	ErrTargetRequired          = fmt.Errorf("%w: transfer target required", ErrOperationDenied)
	ErrTargetNotFound          = fmt.Errorf("%w: transfer target not found", ErrOperationDenied)
	ErrSelfTransfer            = fmt.Errorf("%w: cannot transfer to same account", ErrOperationDenied)
	ErrCommissionExceedsAmount = fmt.Errorf("%w: commission exceeds amount", ErrOperationDenied)

	ErrCurrencyExists    = fmt.Errorf("%w: currency already exists", ErrInvalidConfiguration)
	ErrInvalidLimits     = fmt.Errorf("%w: lower limit exceeds upper limit", ErrInvalidConfiguration)
	ErrInvalidCommission = fmt.Errorf("%w: commission must not be negative", ErrInvalidConfiguration)

	ErrRequestCompleted = fmt.Errorf("%w: confirm request already completed", ErrConflict)
	ErrVersionConflict  = fmt.Errorf("%w: optimistic lock conflict", ErrConflict)
	ErrUserExists       = fmt.Errorf("%w: user name taken", ErrConflict)
	ErrCurrencyInUse    = fmt.Errorf("%w: currency still has wallets", ErrConflict)
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidOperation = errors.New("unknown operation type")
	ErrInvalidRequest   = errors.New("invalid request")
)
