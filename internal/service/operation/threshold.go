package operation

import (
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// ShouldDefer reports whether an operation of amount in currency must wait
// for administrator confirmation. An unset or non-positive confirm limit
// never defers.
func ShouldDefer(currency *domain.Currency, amount decimal.Decimal) bool {
	if currency == nil || currency.ConfirmLimit == nil {
		return false
	}
	limit := *currency.ConfirmLimit
	return limit.IsPositive() && amount.GreaterThan(limit)
}
