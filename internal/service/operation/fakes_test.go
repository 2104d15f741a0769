package operation

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/config"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type walletKey struct {
	accountID  uuid.UUID
	currencyID uuid.UUID
}

// memStore backs every fake repository. Its transaction runner snapshots the
// mutable tables and restores them when the callback fails.
type memStore struct {
	users       map[uuid.UUID]domain.User
	accounts    map[uuid.UUID]domain.Account
	currencies  map[string]domain.Currency
	wallets     map[walletKey]domain.Wallet
	commissions []domain.Commission
	requests    map[uuid.UUID]domain.ConfirmRequest
	history     []domain.HistoryEntry

	historyErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]domain.User),
		accounts:   make(map[uuid.UUID]domain.Account),
		currencies: make(map[string]domain.Currency),
		wallets:    make(map[walletKey]domain.Wallet),
		requests:   make(map[uuid.UUID]domain.ConfirmRequest),
	}
}

func (m *memStore) WithTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	wallets := make(map[walletKey]domain.Wallet, len(m.wallets))
	for k, v := range m.wallets {
		wallets[k] = v
	}
	requests := make(map[uuid.UUID]domain.ConfirmRequest, len(m.requests))
	for k, v := range m.requests {
		requests[k] = v
	}
	history := append([]domain.HistoryEntry(nil), m.history...)

	if err := fn(nil); err != nil {
		m.wallets, m.requests, m.history = wallets, requests, history
		return err
	}
	return nil
}

type fakeAccounts struct{ *memStore }

func (f fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	return &a, nil
}

func (f fakeAccounts) GetForOwner(_ context.Context, id, userID uuid.UUID) (*domain.Account, error) {
	a, ok := f.accounts[id]
	if !ok || a.UserID != userID {
		return nil, fmt.Errorf("GetForOwner: %w", domain.ErrNotFound)
	}
	return &a, nil
}

func (f fakeAccounts) GetPrimaryByUser(_ context.Context, userID uuid.UUID) (*domain.Account, error) {
	var owned []domain.Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			owned = append(owned, a)
		}
	}
	if len(owned) == 0 {
		return nil, fmt.Errorf("GetPrimaryByUser: %w", domain.ErrNotFound)
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.Before(owned[j].CreatedAt) })
	return &owned[0], nil
}

type fakeUsers struct{ *memStore }

func (f fakeUsers) GetByName(_ context.Context, name string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("GetByName: %w", domain.ErrNotFound)
}

func (f fakeUsers) GetByAccountID(_ context.Context, accountID uuid.UUID) (*domain.User, error) {
	a, ok := f.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("GetByAccountID: %w", domain.ErrNotFound)
	}
	u, ok := f.users[a.UserID]
	if !ok {
		return nil, fmt.Errorf("GetByAccountID: %w", domain.ErrNotFound)
	}
	return &u, nil
}

type fakeCurrencies struct{ *memStore }

func (f fakeCurrencies) GetByName(_ context.Context, name string) (*domain.Currency, error) {
	c, ok := f.currencies[name]
	if !ok {
		return nil, fmt.Errorf("GetByName: %w", domain.ErrNotFound)
	}
	return &c, nil
}

type fakeWallets struct{ *memStore }

func (f fakeWallets) GetForUpdate(_ context.Context, _ *sql.Tx, accountID, currencyID uuid.UUID) (*domain.Wallet, error) {
	w, ok := f.wallets[walletKey{accountID, currencyID}]
	if !ok {
		return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
	}
	return &w, nil
}

func (f fakeWallets) EnsureForUpdate(ctx context.Context, tx *sql.Tx, accountID, currencyID uuid.UUID) (*domain.Wallet, error) {
	key := walletKey{accountID, currencyID}
	if _, ok := f.wallets[key]; !ok {
		f.wallets[key] = domain.Wallet{
			ID:         uuid.New(),
			AccountID:  accountID,
			CurrencyID: currencyID,
			CashValue:  decimal.Zero,
		}
	}
	return f.GetForUpdate(ctx, tx, accountID, currencyID)
}

func (f fakeWallets) UpdateBalance(_ context.Context, _ *sql.Tx, id uuid.UUID, cashValue decimal.Decimal, newVersion int64) error {
	for k, w := range f.wallets {
		if w.ID != id {
			continue
		}
		if w.Version != newVersion-1 {
			return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
		}
		w.CashValue = cashValue
		w.Version = newVersion
		f.wallets[k] = w
		return nil
	}
	return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
}

type fakeCommissions struct{ *memStore }

func (f fakeCommissions) GetByUser(_ context.Context, userID uuid.UUID) (*domain.Commission, error) {
	for _, c := range f.commissions {
		if c.UserID != nil && *c.UserID == userID {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("GetByUser: %w", domain.ErrNotFound)
}

func (f fakeCommissions) GetByCurrency(_ context.Context, currencyID uuid.UUID) (*domain.Commission, error) {
	for _, c := range f.commissions {
		if c.CurrencyID != nil && *c.CurrencyID == currencyID {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("GetByCurrency: %w", domain.ErrNotFound)
}

type fakeRequests struct{ *memStore }

func (f fakeRequests) Create(_ context.Context, _ *sql.Tx, req *domain.ConfirmRequest) error {
	f.requests[req.ID] = *req
	return nil
}

func (f fakeRequests) GetByID(_ context.Context, id uuid.UUID) (*domain.ConfirmRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	return &r, nil
}

func (f fakeRequests) GetForUpdate(ctx context.Context, _ *sql.Tx, id uuid.UUID) (*domain.ConfirmRequest, error) {
	return f.GetByID(ctx, id)
}

func (f fakeRequests) MarkCompleted(_ context.Context, _ *sql.Tx, id uuid.UUID, completedAt time.Time) error {
	r, ok := f.requests[id]
	if !ok || r.Status != domain.ConfirmStatusPending {
		return fmt.Errorf("MarkCompleted: %w", domain.ErrRequestCompleted)
	}
	r.Status = domain.ConfirmStatusCompleted
	r.CompletedAt = &completedAt
	f.requests[id] = r
	return nil
}

func (f fakeRequests) ListByStatus(_ context.Context, status domain.ConfirmStatus, limit, offset int) ([]domain.ConfirmRequest, int, error) {
	var matched []domain.ConfirmRequest
	for _, r := range f.requests {
		if r.Status == status {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

type fakeHistory struct{ *memStore }

func (f fakeHistory) Create(_ context.Context, _ *sql.Tx, entry *domain.HistoryEntry) error {
	if f.historyErr != nil {
		return f.historyErr
	}
	f.history = append(f.history, *entry)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func boolPtr(b bool) *bool {
	return &b
}

type fixture struct {
	t     *testing.T
	store *memStore
	svc   *Service
	clock time.Time
}

func newFixture(t *testing.T, depositMode string) *fixture {
	t.Helper()
	store := newMemStore()
	svc := NewService(
		fakeAccounts{store},
		fakeUsers{store},
		fakeCurrencies{store},
		fakeWallets{store},
		fakeCommissions{store},
		fakeRequests{store},
		fakeHistory{store},
		store,
		&config.Config{DepositCommissionMode: depositMode},
	)
	f := &fixture{t: t, store: store, svc: svc, clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

// addUser creates a user with one account; accounts created later sort after
// earlier ones.
func (f *fixture) addUser(name string) (*domain.User, *domain.Account) {
	f.clock = f.clock.Add(time.Minute)
	u := domain.User{ID: uuid.New(), Name: name, Role: domain.UserRoleUser, CreatedAt: f.clock}
	f.store.users[u.ID] = u
	return &u, f.addAccount(u.ID)
}

func (f *fixture) addAccount(userID uuid.UUID) *domain.Account {
	f.clock = f.clock.Add(time.Minute)
	a := domain.Account{ID: uuid.New(), UserID: userID, CreatedAt: f.clock}
	f.store.accounts[a.ID] = a
	return &a
}

func (f *fixture) addCurrency(name string, confirmLimit *decimal.Decimal) *domain.Currency {
	c := domain.Currency{ID: uuid.New(), Name: name, ConfirmLimit: confirmLimit}
	f.store.currencies[name] = c
	return &c
}

func (f *fixture) setWallet(accountID uuid.UUID, currency *domain.Currency, cash string) {
	f.store.wallets[walletKey{accountID, currency.ID}] = domain.Wallet{
		ID:           uuid.New(),
		AccountID:    accountID,
		CurrencyID:   currency.ID,
		CurrencyName: currency.Name,
		CashValue:    dec(cash),
	}
}

func (f *fixture) addCommission(c domain.Commission) {
	c.ID = uuid.New()
	f.store.commissions = append(f.store.commissions, c)
}

func (f *fixture) requireBalance(accountID uuid.UUID, currency *domain.Currency, want string) {
	f.t.Helper()
	w, ok := f.store.wallets[walletKey{accountID, currency.ID}]
	require.True(f.t, ok, "wallet missing")
	require.True(f.t, w.CashValue.Equal(dec(want)), "balance = %s, want %s", w.CashValue, want)
}

func (f *fixture) hasWallet(accountID uuid.UUID, currency *domain.Currency) bool {
	_, ok := f.store.wallets[walletKey{accountID, currency.ID}]
	return ok
}
