package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
)

const TestPassword = "password123"

func SeedUser(t *testing.T, db *sql.DB, name string, role domain.UserRole) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, name, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.PasswordHash, u.Role, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

// SeedAccount inserts an account created at the given offset from now, so
// tests can control which account is a user's primary one.
func SeedAccount(t *testing.T, db *sql.DB, userID uuid.UUID, age time.Duration) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC().Add(-age),
	}
	_, err := db.Exec(
		`INSERT INTO accounts (id, user_id, created_at) VALUES ($1, $2, $3)`,
		a.ID, a.UserID, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account for %s: %v", userID, err)
	}
	return a
}

// SeedCurrency inserts a currency. An empty confirmLimit leaves it unset.
func SeedCurrency(t *testing.T, db *sql.DB, name, confirmLimit string) *domain.Currency {
	t.Helper()

	c := &domain.Currency{ID: uuid.New(), Name: name}
	var limit decimal.NullDecimal
	if confirmLimit != "" {
		d := decimal.RequireFromString(confirmLimit)
		c.ConfirmLimit = &d
		limit = decimal.NewNullDecimal(d)
	}

	_, err := db.Exec(
		`INSERT INTO currencies (id, name, confirm_limit) VALUES ($1, $2, $3)`,
		c.ID, c.Name, limit,
	)
	if err != nil {
		t.Fatalf("seed currency %s: %v", name, err)
	}
	return c
}

func SeedWallet(t *testing.T, db *sql.DB, accountID, currencyID uuid.UUID, cashValue string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(
		`INSERT INTO wallets (id, account_id, currency_id, cash_value) VALUES ($1, $2, $3, $4)`,
		id, accountID, currencyID, decimal.RequireFromString(cashValue),
	)
	if err != nil {
		t.Fatalf("seed wallet %s/%s: %v", accountID, currencyID, err)
	}
	return id
}

// SeedCurrencyCommission sets the currency-level commission for every
// operation type.
func SeedCurrencyCommission(t *testing.T, db *sql.DB, currencyID uuid.UUID, magnitude string, absolute bool) {
	t.Helper()

	m := decimal.RequireFromString(magnitude)
	_, err := db.Exec(
		`INSERT INTO commissions (id, currency_id, transfer_commission, deposit_commission, withdraw_commission, is_absolute)
		 VALUES ($1, $2, $3, $3, $3, $4)`,
		uuid.New(), currencyID, m, absolute,
	)
	if err != nil {
		t.Fatalf("seed commission for %s: %v", currencyID, err)
	}
}

// WalletBalance returns the stored cash value, or nil when no wallet exists.
func WalletBalance(t *testing.T, db *sql.DB, accountID, currencyID uuid.UUID) *decimal.Decimal {
	t.Helper()

	var v decimal.Decimal
	err := db.QueryRow(
		`SELECT cash_value FROM wallets WHERE account_id = $1 AND currency_id = $2`,
		accountID, currencyID,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		t.Fatalf("get wallet %s/%s: %v", accountID, currencyID, err)
	}
	return &v
}

func CountHistory(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM operation_history WHERE sender_account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count history for %s: %v", accountID, err)
	}
	return count
}

func CountConfirmRequests(t *testing.T, db *sql.DB, status domain.ConfirmStatus) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM confirm_requests WHERE status = $1`, status).Scan(&count)
	if err != nil {
		t.Fatalf("count confirm requests: %v", err)
	}
	return count
}
