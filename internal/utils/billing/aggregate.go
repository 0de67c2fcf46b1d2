package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the precision every stored money component is rounded to.
const MoneyPlaces = 2

// DefaultAuditEpsilon is the smallest incremental storage charge worth logging.
var DefaultAuditEpsilon = decimal.NewFromFloat(0.01)

// Input is everything needed to reconcile one case.
type Input struct {
	Case         domain.Case
	Coffins      []domain.CoffinAssignment
	ExtraCharges []domain.ExtraCharge
	Payments     []domain.Payment
	Now          time.Time
	Rates        RateTable
	Epsilon      decimal.Decimal
}

// Warning describes a source row that was excluded or zeroed.
type Warning struct {
	Err    error
	Source string
	ID     string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %v", w.Source, w.ID, w.Err)
}

// IsIntegrity reports whether the warning is a dirty-data warning rather than a rate problem.
func (w Warning) IsIntegrity() bool {
	return errors.Is(w.Err, apperrors.ErrDataIntegrity)
}

// Breakdown is the result of Reconcile.
type Breakdown struct {
	DailyRate          decimal.Decimal
	StorageDays        decimal.Decimal
	TotalStorage       decimal.Decimal
	IncrementalDays    decimal.Decimal
	IncrementalStorage decimal.Decimal
	CoffinCharges      decimal.Decimal
	ExtraChargesTotal  decimal.Decimal
	Embalming          decimal.Decimal
	TotalCharge        decimal.Decimal
	TotalPayments      decimal.Decimal
	Balance            decimal.Decimal
	ShouldAudit        bool
	Warnings           []Warning
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Reconcile recomputes the cumulative charge and balance of a case from its
// source rows. Coffin, extra charge and payment amounts are re-summed on every
// call, so repeated runs never double count them.
func Reconcile(in Input) Breakdown {
	c := in.Case
	epsilon := in.Epsilon
	if epsilon.IsZero() {
		epsilon = DefaultAuditEpsilon
	}

	var b Breakdown
	b.DailyRate = ResolveDailyRate(c, in.Rates)

	total := AccruedStorageCharge(c.AdmittedAt, in.Now, b.DailyRate)
	b.StorageDays = total.Days
	b.TotalStorage = round(total.Amount)

	incremental := AccruedStorageCharge(c.AccrualBaseline(), in.Now, b.DailyRate)
	b.IncrementalDays = incremental.Days
	b.IncrementalStorage = round(incremental.Amount)
	b.ShouldAudit = incremental.Amount.GreaterThan(epsilon)

	b.CoffinCharges = b.sumCoffins(c, in.Coffins)
	b.ExtraChargesTotal = b.sumExtraCharges(in.ExtraCharges)
	if c.EmbalmingCost.Valid {
		b.Embalming = round(c.EmbalmingCost.Decimal)
	} else if c.EmbalmingCostUnreadable {
		b.warn(fmt.Errorf("%w: non-numeric embalming cost", apperrors.ErrDataIntegrity), "case", c.CaseID)
	}

	b.TotalCharge = b.TotalStorage.Add(b.CoffinCharges).Add(b.ExtraChargesTotal).Add(b.Embalming)
	if b.TotalCharge.IsNegative() {
		b.TotalCharge = decimal.Zero
	}
	b.TotalPayments = b.sumPayments(in.Payments)
	b.Balance = b.TotalCharge.Sub(b.TotalPayments)
	return b
}

func (b *Breakdown) warn(err error, source, id string) {
	b.Warnings = append(b.Warnings, Warning{Err: err, Source: source, ID: id})
}

func (b *Breakdown) sumCoffins(c domain.Case, assignments []domain.CoffinAssignment) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range assignments {
		if a.Status != domain.AssignmentActive {
			continue
		}
		if !a.UnitPrice.Valid {
			b.warn(fmt.Errorf("%w: missing unit price", apperrors.ErrDataIntegrity), "coffin_assignment", a.AssignmentID)
			continue
		}
		if a.Quantity < 0 {
			b.warn(fmt.Errorf("%w: negative quantity %d", apperrors.ErrDataIntegrity, a.Quantity), "coffin_assignment", a.AssignmentID)
			continue
		}

		rate := a.FXRateKESPerUSD
		if !rate.Valid {
			rate = c.FXRateKESPerUSD
		}
		converted, err := Convert(a.UnitPrice.Decimal, a.Currency, c.Currency, rate.Decimal)
		if err != nil {
			b.warn(err, "coffin_assignment", a.AssignmentID)
			continue
		}
		sum = sum.Add(round(converted.Mul(decimal.NewFromInt(int64(a.Quantity)))))
	}
	return sum
}

func (b *Breakdown) sumExtraCharges(charges []domain.ExtraCharge) decimal.Decimal {
	sum := decimal.Zero
	for _, ch := range charges {
		if ch.Status == domain.ExtraChargeCancelled {
			continue
		}
		if !ch.Amount.Valid {
			b.warn(fmt.Errorf("%w: missing or non-numeric amount", apperrors.ErrDataIntegrity), "extra_charge", ch.ChargeID)
			continue
		}
		sum = sum.Add(round(ch.Amount.Decimal))
	}
	return sum
}

func (b *Breakdown) sumPayments(payments []domain.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if !p.Amount.Valid {
			b.warn(fmt.Errorf("%w: missing or non-numeric amount", apperrors.ErrDataIntegrity), "payment", p.PaymentID)
			continue
		}
		sum = sum.Add(round(p.Amount.Decimal))
	}
	return sum
}

// HistoryDescription renders the audit line for the incremental storage charge.
func (b Breakdown) HistoryDescription(currency domain.CurrencyCode) string {
	return fmt.Sprintf("Storage charge for %s days at %s %s/day",
		b.IncrementalDays.Round(4).String(), b.DailyRate.StringFixed(MoneyPlaces), currency)
}
