package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
	OperationTransfer OperationType = "transfer"
)

func (t OperationType) IsValid() bool {
	switch t {
	case OperationDeposit, OperationWithdraw, OperationTransfer:
		return true
	}
	return false
}

// IsReduction reports whether the operation debits the source wallet.
func (t OperationType) IsReduction() bool {
	return t == OperationWithdraw || t == OperationTransfer
}

type AdjustmentKind string

const (
	AdjustmentCharge   AdjustmentKind = "charge"
	AdjustmentWithdraw AdjustmentKind = "withdraw"
)

func (k AdjustmentKind) IsValid() bool {
	return k == AdjustmentCharge || k == AdjustmentWithdraw
}

type ConfirmStatus string

const (
	ConfirmStatusPending   ConfirmStatus = "pending"
	ConfirmStatusCompleted ConfirmStatus = "completed"
)

type ConfirmRequest struct {
	ID              uuid.UUID
	OperationType   OperationType
	SenderAccountID uuid.UUID
	TargetAccountID *uuid.UUID
	CurrencyName    string
	Amount          decimal.Decimal
	Commission      decimal.Decimal
	Status          ConfirmStatus
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

type HistoryEntry struct {
	ID              uuid.UUID
	OperationType   OperationType
	UserID          uuid.UUID
	SenderAccountID uuid.UUID
	TargetAccountID *uuid.UUID
	Amount          decimal.Decimal
	Commission      decimal.Decimal
	CurrencyName    string
	CreatedAt       time.Time
}
