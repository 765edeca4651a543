// Package returns computes the percentage return metrics published per fund.
package returns

import (
	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
)

// PercentChange returns the percentage change from past to current,
// rounded to two decimal places. Absent when no comparable past price
// exists (missing or zero).
func PercentChange(current float64, past null.Float) null.Float {
	if !past.Valid || past.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom(round2((current - past.Float64) / past.Float64 * 100))
}

// CurrencyAdjusted recombines a fund's local-currency return with the
// base currency's exchange-rate return, both given in percent. Returns
// compound multiplicatively, so the base-currency view of a foreign
// fund is (1+local)/(1+fx)-1, not their difference.
//
// Absent when either input is absent, or when fx is -100% (the ratio
// is undefined).
func CurrencyAdjusted(localPct, fxPct null.Float) null.Float {
	if !localPct.Valid || !fxPct.Valid {
		return null.Float{}
	}
	local := localPct.Float64 / 100
	fx := fxPct.Float64 / 100
	if fx == -1 {
		return null.Float{}
	}
	return null.FloatFrom(round2(((1+local)/(1+fx) - 1) * 100))
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
