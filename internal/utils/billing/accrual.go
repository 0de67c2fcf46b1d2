package billing

import (
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var nanosPerDay = decimal.NewFromInt(int64(24 * time.Hour))

// RateTable holds the daily storage tariffs.
type RateTable struct {
	PremiumKES  decimal.Decimal
	StandardKES decimal.Decimal
	DefaultUSD  decimal.Decimal
}

// DefaultRateTable returns the tariffs the mortuary has historically charged.
func DefaultRateTable() RateTable {
	return RateTable{
		PremiumKES:  decimal.NewFromInt(5000),
		StandardKES: decimal.NewFromInt(3000),
		DefaultUSD:  decimal.NewFromInt(130),
	}
}

// ResolveDailyRate returns the daily storage tariff for c, in c.Currency.
// USD cases use their own daily_rate_usd when set.
func ResolveDailyRate(c domain.Case, t RateTable) decimal.Decimal {
	if c.Currency == domain.USD {
		if c.DailyRateUSD.Valid && c.DailyRateUSD.Decimal.IsPositive() {
			return c.DailyRateUSD.Decimal
		}
		return t.DefaultUSD
	}
	if c.RateCategory == domain.RatePremium {
		return t.PremiumKES
	}
	return t.StandardKES
}

// Accrual is the storage charge owed for a period.
type Accrual struct {
	Days   decimal.Decimal
	Amount decimal.Decimal
}

// AccruedStorageCharge computes the fractional number of days between from and
// asOf and the resulting charge at dailyRate. It never returns a negative value.
func AccruedStorageCharge(from, asOf time.Time, dailyRate decimal.Decimal) Accrual {
	if !asOf.After(from) || !dailyRate.IsPositive() {
		return Accrual{Days: decimal.Zero, Amount: decimal.Zero}
	}
	days := decimal.NewFromInt(int64(asOf.Sub(from))).Div(nanosPerDay)
	return Accrual{Days: days, Amount: dailyRate.Mul(days)}
}
