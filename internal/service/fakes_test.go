package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	f.calls++
	return fn(nil)
}

type fakeUserRepo struct {
	users     map[uuid.UUID]domain.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, _ *sql.Tx, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Name == user.Name {
			return fmt.Errorf("Create: %w", domain.ErrUserExists)
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	return &u, nil
}

type fakeAccountRepo struct {
	accounts  map[uuid.UUID]domain.Account
	createErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]domain.Account)}
}

func (f *fakeAccountRepo) Create(_ context.Context, _ *sql.Tx, account *domain.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeAccountRepo) GetForOwner(_ context.Context, id, userID uuid.UUID) (*domain.Account, error) {
	a, ok := f.accounts[id]
	if !ok || a.UserID != userID {
		return nil, fmt.Errorf("GetForOwner: %w", domain.ErrNotFound)
	}
	return &a, nil
}

func (f *fakeAccountRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeWalletLister struct {
	wallets map[uuid.UUID][]domain.Wallet
}

func (f *fakeWalletLister) ListByAccount(_ context.Context, accountID uuid.UUID) ([]domain.Wallet, error) {
	return f.wallets[accountID], nil
}

type fakeHistoryLister struct {
	entries map[uuid.UUID][]domain.HistoryEntry
}

func (f *fakeHistoryLister) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]domain.HistoryEntry, int, error) {
	all := f.entries[accountID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	return all[offset:min(offset+limit, total)], total, nil
}

type fakeCurrencyRepo struct {
	currencies map[string]domain.Currency
	inUse      map[string]bool
}

func newFakeCurrencyRepo() *fakeCurrencyRepo {
	return &fakeCurrencyRepo{currencies: make(map[string]domain.Currency), inUse: make(map[string]bool)}
}

func (f *fakeCurrencyRepo) Create(_ context.Context, c *domain.Currency) error {
	if _, ok := f.currencies[c.Name]; ok {
		return fmt.Errorf("Create: %w", domain.ErrCurrencyExists)
	}
	f.currencies[c.Name] = *c
	return nil
}

func (f *fakeCurrencyRepo) GetByName(_ context.Context, name string) (*domain.Currency, error) {
	c, ok := f.currencies[name]
	if !ok {
		return nil, fmt.Errorf("GetByName: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (f *fakeCurrencyRepo) List(_ context.Context) ([]domain.Currency, error) {
	out := make([]domain.Currency, 0, len(f.currencies))
	for _, c := range f.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCurrencyRepo) UpdateLimits(_ context.Context, name string, lower, upper, confirm *decimal.Decimal) (*domain.Currency, error) {
	c, ok := f.currencies[name]
	if !ok {
		return nil, fmt.Errorf("UpdateLimits: %w", domain.ErrNotFound)
	}
	c.LowerCommissionLimit, c.UpperCommissionLimit, c.ConfirmLimit = lower, upper, confirm
	f.currencies[name] = c
	return &c, nil
}

func (f *fakeCurrencyRepo) DeleteByName(_ context.Context, name string) error {
	if _, ok := f.currencies[name]; !ok {
		return fmt.Errorf("DeleteByName: %w", domain.ErrNotFound)
	}
	if f.inUse[name] {
		return fmt.Errorf("DeleteByName: %w", domain.ErrCurrencyInUse)
	}
	delete(f.currencies, name)
	return nil
}

type fakeCommissionRepo struct {
	byUser     map[uuid.UUID]domain.Commission
	byCurrency map[uuid.UUID]domain.Commission
}

func newFakeCommissionRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{
		byUser:     make(map[uuid.UUID]domain.Commission),
		byCurrency: make(map[uuid.UUID]domain.Commission),
	}
}

func (f *fakeCommissionRepo) Upsert(_ context.Context, c *domain.Commission) (*domain.Commission, error) {
	switch {
	case c.UserID != nil:
		if existing, ok := f.byUser[*c.UserID]; ok {
			c.ID = existing.ID
		}
		f.byUser[*c.UserID] = *c
	case c.CurrencyID != nil:
		if existing, ok := f.byCurrency[*c.CurrencyID]; ok {
			c.ID = existing.ID
		}
		f.byCurrency[*c.CurrencyID] = *c
	default:
		return nil, errors.New("commission without scope")
	}
	saved := *c
	return &saved, nil
}

type fakePurger struct {
	mu        sync.Mutex
	remaining int64
	calls     int
	cutoffs   []time.Time
	err       error
}

func (f *fakePurger) PurgeExpired(_ context.Context, cutoff time.Time, batch int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return 0, f.err
	}
	n := min(f.remaining, int64(batch))
	f.remaining -= n
	return n, nil
}

func (f *fakePurger) left() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
