package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/josh-kwaku/wallet-ledger/internal/service/operation"
)

type adminFixture struct {
	engine      *fakeEngine
	currencies  *fakeCurrencyAdmin
	commissions *fakeCommissionAdmin
	h           *AdminHandler
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		engine:      &fakeEngine{},
		currencies:  &fakeCurrencyAdmin{},
		commissions: &fakeCommissionAdmin{},
	}
	f.h = NewAdminHandler(f.engine, f.currencies, f.commissions)
	return f
}

func TestAdmin_ListRequests(t *testing.T) {
	f := newAdminFixture()
	for range 3 {
		f.engine.pending = append(f.engine.pending, domain.ConfirmRequest{
			ID:            uuid.New(),
			OperationType: domain.OperationDeposit,
			Status:        domain.ConfirmStatusPending,
			Amount:        decimal.NewFromInt(1000),
		})
	}

	rr := httptest.NewRecorder()
	f.h.ListRequests(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/requests?limit=2", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Items []confirmRequestDTO `json:"items"`
		Total int                 `json:"total"`
	}
	dataAs(t, rr, &page)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)
}

func TestAdmin_ConfirmRequest(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name       string
		id         string
		result     *operation.ConfirmResult
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name: "completed",
			id:   uuid.NewString(),
			result: &operation.ConfirmResult{Request: &domain.ConfirmRequest{
				ID:          uuid.New(),
				Status:      domain.ConfirmStatusCompleted,
				CompletedAt: &now,
			}},
			wantStatus: http.StatusOK,
		},
		{name: "already completed", id: uuid.NewString(), err: domain.ErrRequestCompleted, wantStatus: http.StatusConflict, wantCode: "REQUEST_ALREADY_COMPLETED"},
		{name: "unknown", id: uuid.NewString(), err: domain.ErrRequestNotFound, wantStatus: http.StatusNotFound, wantCode: "CONFIRM_REQUEST_NOT_FOUND"},
		{name: "malformed id", id: "abc", wantStatus: http.StatusNotFound, wantCode: "CONFIRM_REQUEST_NOT_FOUND"},
		{name: "balance now too low", id: uuid.NewString(), err: domain.ErrInsufficientFunds, wantStatus: http.StatusUnprocessableEntity, wantCode: "INSUFFICIENT_FUNDS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAdminFixture()
			f.engine.confirmResult, f.engine.confirmErr = tc.result, tc.err

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/requests/"+tc.id+"/confirm", nil)
			req.SetPathValue("id", tc.id)
			rr := httptest.NewRecorder()
			f.h.ConfirmRequest(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, errorCode(t, rr))
				return
			}
			var got confirmRequestDTO
			dataAs(t, rr, &got)
			assert.Equal(t, "completed", got.Status)
		})
	}
}

func TestAdmin_Adjust(t *testing.T) {
	accountID := uuid.New()
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "charge", body: `{"account_id":"` + accountID.String() + `","currency":"usd","kind":"charge","amount":"50"}`, wantStatus: http.StatusOK},
		{name: "unknown kind", body: `{"account_id":"` + accountID.String() + `","currency":"USD","kind":"gift","amount":"50"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "missing account", body: `{"currency":"USD","kind":"charge","amount":"50"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "overdraw", body: `{"account_id":"` + accountID.String() + `","currency":"USD","kind":"withdraw","amount":"101"}`, err: domain.ErrInsufficientFunds, wantStatus: http.StatusUnprocessableEntity, wantCode: "INSUFFICIENT_FUNDS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAdminFixture()
			f.engine.adjustErr = tc.err
			f.engine.adjustWallet = &domain.Wallet{ID: uuid.New(), AccountID: accountID, CurrencyName: "USD", CashValue: decimal.NewFromInt(150)}

			rr := httptest.NewRecorder()
			f.h.Adjust(rr, httptest.NewRequest(http.MethodPost, "/api/v1/admin/adjustments", strings.NewReader(tc.body)))

			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, errorCode(t, rr))
				return
			}
			assert.Equal(t, "USD", f.engine.gotAdjust.CurrencyName)
			assert.Equal(t, domain.AdjustmentCharge, f.engine.gotAdjust.Kind)
			assert.Equal(t, accountID, f.engine.gotAdjust.AccountID)
		})
	}
}

func TestAdmin_Currencies(t *testing.T) {
	f := newAdminFixture()

	rr := httptest.NewRecorder()
	f.h.AddCurrency(rr, httptest.NewRequest(http.MethodPost, "/api/v1/admin/currencies", strings.NewReader(`{"name":"USD"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	f.h.AddCurrency(rr, httptest.NewRequest(http.MethodPost, "/api/v1/admin/currencies", strings.NewReader(`{"name":" "}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/currencies/usd/limits",
		strings.NewReader(`{"lower_commission_limit":"1","upper_commission_limit":"50","confirm_limit":null}`))
	req.SetPathValue("name", "usd")
	rr = httptest.NewRecorder()
	f.h.SetLimits(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotNil(t, f.currencies.gotLimits.LowerCommission)
	assert.True(t, f.currencies.gotLimits.LowerCommission.Equal(decimal.NewFromInt(1)))
	assert.Nil(t, f.currencies.gotLimits.Confirm)

	var got currencyDTO
	dataAs(t, rr, &got)
	assert.Equal(t, "USD", got.Name)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/currencies/USD", nil)
	req.SetPathValue("name", "USD")
	rr = httptest.NewRecorder()
	f.h.DeleteCurrency(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	f.currencies.err = domain.ErrCurrencyInUse
	rr = httptest.NewRecorder()
	f.h.DeleteCurrency(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "CURRENCY_IN_USE", errorCode(t, rr))
}

func TestAdmin_Commissions(t *testing.T) {
	f := newAdminFixture()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/commissions/users/"+userID.String(),
		strings.NewReader(`{"withdraw_commission":"2","is_absolute":true}`))
	req.SetPathValue("id", userID.String())
	rr := httptest.NewRecorder()
	f.h.SetUserCommission(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, userID, f.commissions.gotUser)
	require.NotNil(t, f.commissions.gotValues.IsAbsolute)
	assert.True(t, *f.commissions.gotValues.IsAbsolute)
	assert.Nil(t, f.commissions.gotValues.Transfer)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/admin/commissions/currencies/eur",
		strings.NewReader(`{"transfer_commission":"-1"}`))
	req.SetPathValue("name", "eur")
	f.commissions.err = domain.ErrInvalidCommission
	rr = httptest.NewRecorder()
	f.h.SetCurrencyCommission(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_COMMISSION", errorCode(t, rr))
	assert.Equal(t, "EUR", f.commissions.gotCurrency)
}
