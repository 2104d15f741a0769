package operation

import (
	"github.com/josh-kwaku/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// commissionScale is the number of fractional digits kept for rate-based
// commission, matching the NUMERIC(20,4) columns.
const commissionScale = 4

var hundred = decimal.NewFromInt(100)

type CommissionScope string

const (
	CommissionScopeNone     CommissionScope = "none"
	CommissionScopeUser     CommissionScope = "user"
	CommissionScopeCurrency CommissionScope = "currency"
)

// CommissionSpec is the effective commission configuration for one
// operation type.
type CommissionSpec struct {
	Magnitude decimal.Decimal
	Absolute  bool
	Scope     CommissionScope
}

// ResolveCommission picks the first record that configures op: the user
// override, then the currency default. Absent configuration yields zero.
// IsAbsolute is taken from the record that supplied the magnitude; unset
// means rate.
func ResolveCommission(user, currency *domain.Commission, op domain.OperationType) CommissionSpec {
	candidates := []struct {
		record *domain.Commission
		scope  CommissionScope
	}{
		{user, CommissionScopeUser},
		{currency, CommissionScopeCurrency},
	}

	for _, c := range candidates {
		if m := c.record.For(op); m != nil {
			return CommissionSpec{
				Magnitude: *m,
				Absolute:  c.record.IsAbsolute != nil && *c.record.IsAbsolute,
				Scope:     c.scope,
			}
		}
	}
	return CommissionSpec{Magnitude: decimal.Zero, Scope: CommissionScopeNone}
}

// ComputeCommission turns spec into an amount for the given operation amount.
// Absolute commission is the magnitude itself. Rate commission is
// amount * magnitude / 100, bounded by the currency's commission limits
// when they are set.
func ComputeCommission(spec CommissionSpec, amount decimal.Decimal, currency *domain.Currency) decimal.Decimal {
	if spec.Scope == CommissionScopeNone {
		return decimal.Zero
	}
	if spec.Absolute {
		return spec.Magnitude
	}

	fee := amount.Mul(spec.Magnitude).Div(hundred).Round(commissionScale)
	if currency == nil {
		return fee
	}
	if lower := currency.LowerCommissionLimit; lower != nil && fee.LessThan(*lower) {
		fee = *lower
	}
	if upper := currency.UpperCommissionLimit; upper != nil && fee.GreaterThan(*upper) {
		fee = *upper
	}
	return fee
}
