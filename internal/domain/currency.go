package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency carries the per-currency commission bounds and the confirm limit
// above which operations are queued for an administrator.
type Currency struct {
	ID                   uuid.UUID
	Name                 string
	LowerCommissionLimit *decimal.Decimal
	UpperCommissionLimit *decimal.Decimal
	ConfirmLimit         *decimal.Decimal
}

// Commission is scoped either to a user (override) or to a currency
// (default). Exactly one of UserID and CurrencyID is set.
type Commission struct {
	ID                 uuid.UUID
	UserID             *uuid.UUID
	CurrencyID         *uuid.UUID
	TransferCommission *decimal.Decimal
	DepositCommission  *decimal.Decimal
	WithdrawCommission *decimal.Decimal
	IsAbsolute         *bool
}

// For returns the configured magnitude for op, or nil when the field is unset.
func (c *Commission) For(op OperationType) *decimal.Decimal {
	if c == nil {
		return nil
	}
	switch op {
	case OperationDeposit:
		return c.DepositCommission
	case OperationWithdraw:
		return c.WithdrawCommission
	case OperationTransfer:
		return c.TransferCommission
	default:
		return nil
	}
}
