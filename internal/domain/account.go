package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// Wallet holds the balance of one account in one currency. CurrencyName is
// populated on reads for display and is not persisted on the wallet row.
type Wallet struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	CurrencyID   uuid.UUID
	CurrencyName string
	CashValue    decimal.Decimal
	Version      int64
	UpdatedAt    time.Time
}
