package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/logging"
)

const minPasswordLength = 8

type AccountService struct {
	users    userRepository
	accounts accountRepository
	wallets  walletLister
	history  historyLister
	db       txRunner
	hashCost int
}

func NewAccountService(users userRepository, accounts accountRepository, wallets walletLister, history historyLister, db txRunner) *AccountService {
	return &AccountService{
		users:    users,
		accounts: accounts,
		wallets:  wallets,
		history:  history,
		db:       db,
		hashCost: bcrypt.DefaultCost,
	}
}

// AccountDetail is an account together with every wallet it holds.
type AccountDetail struct {
	Account domain.Account
	Wallets []domain.Wallet
}

// Register creates a user with the regular role and its first account in a
// single transaction.
func (s *AccountService) Register(ctx context.Context, name, password string) (*domain.User, *domain.Account, error) {
	log := logging.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" || len(password) < minPasswordLength {
		return nil, nil, fmt.Errorf("Register: %w", domain.ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, nil, fmt.Errorf("Register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.UserRoleUser,
		CreatedAt:    now,
	}
	account := &domain.Account{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
	}

	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		return s.accounts.Create(ctx, tx, account)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("Register: %w", err)
	}

	log.Info("user registered", "user_id", user.ID, "account_id", account.ID)
	return user, account, nil
}

func (s *AccountService) OpenAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", notFoundAs(err, domain.ErrUserNotFound))
	}

	account := &domain.Account{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return s.accounts.Create(ctx, tx, account)
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}

	logging.FromContext(ctx).Info("account opened", "account_id", account.ID, "user_id", userID)
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}

// GetAccount returns the account only when userID owns it; any other account
// is reported as not found.
func (s *AccountService) GetAccount(ctx context.Context, accountID, userID uuid.UUID) (*AccountDetail, error) {
	account, err := s.accounts.GetForOwner(ctx, accountID, userID)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", notFoundAs(err, domain.ErrAccountNotFound))
	}

	wallets, err := s.wallets.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: wallets: %w", err)
	}
	return &AccountDetail{Account: *account, Wallets: wallets}, nil
}

func (s *AccountService) History(ctx context.Context, accountID, userID uuid.UUID, limit, offset int) ([]domain.HistoryEntry, int, error) {
	if _, err := s.accounts.GetForOwner(ctx, accountID, userID); err != nil {
		return nil, 0, fmt.Errorf("History: %w", notFoundAs(err, domain.ErrAccountNotFound))
	}

	entries, total, err := s.history.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("History: %w", err)
	}
	return entries, total, nil
}

func notFoundAs(err, specific error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return specific
	}
	return err
}
