package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
)

type userDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Role: string(u.Role)}
}

type accountDTO struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	CreatedAt time.Time   `json:"created_at"`
	Wallets   []walletDTO `json:"wallets,omitempty"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{ID: a.ID, UserID: a.UserID, CreatedAt: a.CreatedAt}
}

type walletDTO struct {
	ID        uuid.UUID       `json:"id"`
	Currency  string          `json:"currency"`
	CashValue decimal.Decimal `json:"cash_value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toWalletDTO(w *domain.Wallet) walletDTO {
	return walletDTO{ID: w.ID, Currency: w.CurrencyName, CashValue: w.CashValue, UpdatedAt: w.UpdatedAt}
}

type currencyDTO struct {
	ID                   uuid.UUID        `json:"id"`
	Name                 string           `json:"name"`
	LowerCommissionLimit *decimal.Decimal `json:"lower_commission_limit"`
	UpperCommissionLimit *decimal.Decimal `json:"upper_commission_limit"`
	ConfirmLimit         *decimal.Decimal `json:"confirm_limit"`
}

func toCurrencyDTO(c *domain.Currency) currencyDTO {
	return currencyDTO{
		ID:                   c.ID,
		Name:                 c.Name,
		LowerCommissionLimit: c.LowerCommissionLimit,
		UpperCommissionLimit: c.UpperCommissionLimit,
		ConfirmLimit:         c.ConfirmLimit,
	}
}

type commissionDTO struct {
	ID                 uuid.UUID        `json:"id"`
	UserID             *uuid.UUID       `json:"user_id,omitempty"`
	CurrencyID         *uuid.UUID       `json:"currency_id,omitempty"`
	TransferCommission *decimal.Decimal `json:"transfer_commission"`
	DepositCommission  *decimal.Decimal `json:"deposit_commission"`
	WithdrawCommission *decimal.Decimal `json:"withdraw_commission"`
	IsAbsolute         *bool            `json:"is_absolute"`
}

func toCommissionDTO(c *domain.Commission) commissionDTO {
	return commissionDTO{
		ID:                 c.ID,
		UserID:             c.UserID,
		CurrencyID:         c.CurrencyID,
		TransferCommission: c.TransferCommission,
		DepositCommission:  c.DepositCommission,
		WithdrawCommission: c.WithdrawCommission,
		IsAbsolute:         c.IsAbsolute,
	}
}

type confirmRequestDTO struct {
	ID              uuid.UUID       `json:"id"`
	OperationType   string          `json:"operation_type"`
	SenderAccountID uuid.UUID       `json:"sender_account_id"`
	TargetAccountID *uuid.UUID      `json:"target_account_id,omitempty"`
	Currency        string          `json:"currency"`
	Amount          decimal.Decimal `json:"amount"`
	Commission      decimal.Decimal `json:"commission"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

func toConfirmRequestDTO(r *domain.ConfirmRequest) confirmRequestDTO {
	return confirmRequestDTO{
		ID:              r.ID,
		OperationType:   string(r.OperationType),
		SenderAccountID: r.SenderAccountID,
		TargetAccountID: r.TargetAccountID,
		Currency:        r.CurrencyName,
		Amount:          r.Amount,
		Commission:      r.Commission,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		CompletedAt:     r.CompletedAt,
	}
}

type historyDTO struct {
	ID              uuid.UUID       `json:"id"`
	OperationType   string          `json:"operation_type"`
	UserID          uuid.UUID       `json:"user_id"`
	SenderAccountID uuid.UUID       `json:"sender_account_id"`
	TargetAccountID *uuid.UUID      `json:"target_account_id,omitempty"`
	Currency        string          `json:"currency"`
	Amount          decimal.Decimal `json:"amount"`
	Commission      decimal.Decimal `json:"commission"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toHistoryDTO(e *domain.HistoryEntry) historyDTO {
	return historyDTO{
		ID:              e.ID,
		OperationType:   string(e.OperationType),
		UserID:          e.UserID,
		SenderAccountID: e.SenderAccountID,
		TargetAccountID: e.TargetAccountID,
		Currency:        e.CurrencyName,
		Amount:          e.Amount,
		Commission:      e.Commission,
		CreatedAt:       e.CreatedAt,
	}
}
