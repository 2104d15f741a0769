package operation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/josh-kwaku/wallet-ledger/internal/config"
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjust(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.AdjustmentKind
		amount   string
		currency string
		account  func(acct *domain.Account) uuid.UUID
		want     string
		wantErr  error
	}{
		{name: "charge", kind: domain.AdjustmentCharge, amount: "50", currency: "USD", want: "150"},
		{name: "withdraw", kind: domain.AdjustmentWithdraw, amount: "55", currency: "USD", want: "45"},
		{name: "withdraw entire balance", kind: domain.AdjustmentWithdraw, amount: "100", currency: "USD", want: "0"},
		{name: "withdraw more than balance", kind: domain.AdjustmentWithdraw, amount: "101", currency: "USD", want: "100", wantErr: domain.ErrInsufficientFunds},
		{name: "withdraw from missing wallet", kind: domain.AdjustmentWithdraw, amount: "1", currency: "EUR", wantErr: domain.ErrMissingWallet},
		{name: "zero amount", kind: domain.AdjustmentCharge, amount: "0", currency: "USD", want: "100", wantErr: domain.ErrInvalidAmount},
		{name: "unknown kind", kind: "refund", amount: "1", currency: "USD", want: "100", wantErr: domain.ErrInvalidRequest},
		{name: "unknown currency", kind: domain.AdjustmentCharge, amount: "1", currency: "XXX", want: "100", wantErr: domain.ErrCurrencyNotFound},
		{
			name:     "unknown account",
			kind:     domain.AdjustmentCharge,
			amount:   "1",
			currency: "USD",
			account:  func(*domain.Account) uuid.UUID { return uuid.New() },
			want:     "100",
			wantErr:  domain.ErrAccountNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, config.DepositModeDeduct)
			_, acct := f.addUser("alice")
			usd := f.addCurrency("USD", decPtr("1"))
			f.addCurrency("EUR", nil)
			f.setWallet(acct.ID, usd, "100")

			accountID := acct.ID
			if tc.account != nil {
				accountID = tc.account(acct)
			}

			wallet, err := f.svc.Adjust(context.Background(), AdjustRequest{
				AccountID:    accountID,
				CurrencyName: tc.currency,
				Kind:         tc.kind,
				Amount:       dec(tc.amount),
			})

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, wallet)
			} else {
				require.NoError(t, err)
				assert.True(t, wallet.CashValue.Equal(dec(tc.want)))
			}
			if tc.want != "" {
				f.requireBalance(acct.ID, usd, tc.want)
			}
			assert.Empty(t, f.store.history)
			assert.Empty(t, f.store.requests)
		})
	}
}

func TestAdjust_ChargeCreatesWallet(t *testing.T) {
	f := newFixture(t, config.DepositModeDeduct)
	_, acct := f.addUser("alice")
	eur := f.addCurrency("EUR", nil)

	wallet, err := f.svc.Adjust(context.Background(), AdjustRequest{
		AccountID:    acct.ID,
		CurrencyName: "EUR",
		Kind:         domain.AdjustmentCharge,
		Amount:       dec("12.5"),
	})
	require.NoError(t, err)

	assert.True(t, wallet.CashValue.Equal(dec("12.5")))
	f.requireBalance(acct.ID, eur, "12.5")
}

func TestAdjust_IgnoresCommission(t *testing.T) {
	f := newFixture(t, config.DepositModeDeduct)
	_, acct := f.addUser("alice")
	usd := f.addCurrency("USD", nil)
	f.setWallet(acct.ID, usd, "100")
	f.addCommission(domain.Commission{
		CurrencyID:         &usd.ID,
		WithdrawCommission: decPtr("10"),
		IsAbsolute:         boolPtr(true),
	})

	_, err := f.svc.Adjust(context.Background(), AdjustRequest{
		AccountID:    acct.ID,
		CurrencyName: "USD",
		Kind:         domain.AdjustmentWithdraw,
		Amount:       dec("100"),
	})
	require.NoError(t, err)
	f.requireBalance(acct.ID, usd, "0")
}
