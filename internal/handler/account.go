package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/wallet-ledger/internal/auth"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
	"github.com/josh-kwaku/wallet-ledger/internal/service"
)

type accountService interface {
	OpenAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	GetAccount(ctx context.Context, accountID, userID uuid.UUID) (*service.AccountDetail, error)
	History(ctx context.Context, accountID, userID uuid.UUID, limit, offset int) ([]domain.HistoryEntry, int, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	account, err := h.accounts.OpenAccount(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to open account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	accounts, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, accountID, appErr := accountFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	detail, err := h.accounts.GetAccount(r.Context(), accountID, userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dto := toAccountDTO(&detail.Account)
	dto.Wallets = make([]walletDTO, len(detail.Wallets))
	for i := range detail.Wallets {
		dto.Wallets[i] = toWalletDTO(&detail.Wallets[i])
	}
	RespondSuccess(w, http.StatusOK, dto)
}

func (h *AccountHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, accountID, appErr := accountFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	limit, offset, fields := pagination(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entries, total, err := h.accounts.History(r.Context(), accountID, userID, limit, offset)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]historyDTO, len(entries))
	for i := range entries {
		dtos[i] = toHistoryDTO(&entries[i])
	}
	RespondSuccess(w, http.StatusOK, Page{Items: dtos, Total: total, Limit: limit, Offset: offset})
}
