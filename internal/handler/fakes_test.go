package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/wallet-ledger/internal/auth"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/service"
	"github.com/josh-kwaku/wallet-ledger/internal/service/operation"
)

type fakeEngine struct {
	gotExecute operation.ExecuteRequest
	execResult *operation.Result
	execErr    error

	confirmResult *operation.ConfirmResult
	confirmErr    error

	gotAdjust    operation.AdjustRequest
	adjustWallet *domain.Wallet
	adjustErr    error

	pending []domain.ConfirmRequest
}

func (f *fakeEngine) Execute(_ context.Context, req operation.ExecuteRequest) (*operation.Result, error) {
	f.gotExecute = req
	return f.execResult, f.execErr
}

func (f *fakeEngine) ListPending(_ context.Context, limit, offset int) ([]domain.ConfirmRequest, int, error) {
	if offset >= len(f.pending) {
		return nil, len(f.pending), nil
	}
	return f.pending[offset:min(offset+limit, len(f.pending))], len(f.pending), nil
}

func (f *fakeEngine) Confirm(_ context.Context, _ uuid.UUID) (*operation.ConfirmResult, error) {
	return f.confirmResult, f.confirmErr
}

func (f *fakeEngine) Adjust(_ context.Context, req operation.AdjustRequest) (*domain.Wallet, error) {
	f.gotAdjust = req
	return f.adjustWallet, f.adjustErr
}

type fakeAccountService struct {
	owner    uuid.UUID
	accounts []domain.Account
	wallets  []domain.Wallet
	history  []domain.HistoryEntry

	registerErr error
}

func (f *fakeAccountService) Register(_ context.Context, name, _ string) (*domain.User, *domain.Account, error) {
	if f.registerErr != nil {
		return nil, nil, f.registerErr
	}
	u := &domain.User{ID: uuid.New(), Name: name, Role: domain.UserRoleUser}
	return u, &domain.Account{ID: uuid.New(), UserID: u.ID}, nil
}

func (f *fakeAccountService) OpenAccount(_ context.Context, userID uuid.UUID) (*domain.Account, error) {
	a := domain.Account{ID: uuid.New(), UserID: userID}
	f.accounts = append(f.accounts, a)
	return &a, nil
}

func (f *fakeAccountService) ListAccounts(_ context.Context, userID uuid.UUID) ([]domain.Account, error) {
	if userID != f.owner {
		return nil, nil
	}
	return f.accounts, nil
}

func (f *fakeAccountService) find(accountID, userID uuid.UUID) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.ID == accountID && a.UserID == userID {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountService) GetAccount(_ context.Context, accountID, userID uuid.UUID) (*service.AccountDetail, error) {
	a, err := f.find(accountID, userID)
	if err != nil {
		return nil, err
	}
	return &service.AccountDetail{Account: *a, Wallets: f.wallets}, nil
}

func (f *fakeAccountService) History(_ context.Context, accountID, userID uuid.UUID, limit, offset int) ([]domain.HistoryEntry, int, error) {
	if _, err := f.find(accountID, userID); err != nil {
		return nil, 0, err
	}
	if offset >= len(f.history) {
		return nil, len(f.history), nil
	}
	return f.history[offset:min(offset+limit, len(f.history))], len(f.history), nil
}

type fakeUserReader struct {
	users map[string]*domain.User
}

func (f *fakeUserReader) GetByName(_ context.Context, name string) (*domain.User, error) {
	u, ok := f.users[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type fakeCurrencyAdmin struct {
	currencies []domain.Currency
	gotLimits  service.CurrencyLimits
	err        error
}

func (f *fakeCurrencyAdmin) Add(_ context.Context, name string) (*domain.Currency, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Currency{ID: uuid.New(), Name: name}, nil
}

func (f *fakeCurrencyAdmin) Delete(_ context.Context, _ string) error {
	return f.err
}

func (f *fakeCurrencyAdmin) SetLimits(_ context.Context, name string, limits service.CurrencyLimits) (*domain.Currency, error) {
	f.gotLimits = limits
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Currency{
		ID:                   uuid.New(),
		Name:                 name,
		LowerCommissionLimit: limits.LowerCommission,
		UpperCommissionLimit: limits.UpperCommission,
		ConfirmLimit:         limits.Confirm,
	}, nil
}

func (f *fakeCurrencyAdmin) List(_ context.Context) ([]domain.Currency, error) {
	return f.currencies, f.err
}

type fakeCommissionAdmin struct {
	gotUser     uuid.UUID
	gotCurrency string
	gotValues   service.CommissionValues
	err         error
}

func (f *fakeCommissionAdmin) SetForUser(_ context.Context, userID uuid.UUID, values service.CommissionValues) (*domain.Commission, error) {
	f.gotUser, f.gotValues = userID, values
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Commission{ID: uuid.New(), UserID: &userID, WithdrawCommission: values.Withdraw}, nil
}

func (f *fakeCommissionAdmin) SetForCurrency(_ context.Context, name string, values service.CommissionValues) (*domain.Commission, error) {
	f.gotCurrency, f.gotValues = name, values
	if f.err != nil {
		return nil, f.err
	}
	id := uuid.New()
	return &domain.Commission{ID: uuid.New(), CurrencyID: &id}, nil
}

// authed attaches claims for userID to req.
func authed(req *http.Request, userID uuid.UUID, role domain.UserRole) *http.Request {
	return req.WithContext(auth.ContextWithClaims(req.Context(), &auth.Claims{UserID: userID, Role: role}))
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, rr)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

// dataAs re-decodes the data field of the envelope into out.
func dataAs(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.True(t, env.Success, rr.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}
