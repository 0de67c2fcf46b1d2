package billing_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/SscSPs/mortuary_billing_app/internal/utils/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func standardCase() domain.Case {
	return domain.Case{
		ID:           1,
		CaseID:       "MC-0001",
		RateCategory: domain.RateStandard,
		Currency:     domain.KES,
		AdmittedAt:   t0,
		Status:       domain.CaseInStorage,
	}
}

func reconcileAt(c domain.Case, now time.Time, opts ...func(*billing.Input)) billing.Breakdown {
	in := billing.Input{Case: c, Now: now, Rates: billing.DefaultRateTable()}
	for _, o := range opts {
		o(&in)
	}
	return billing.Reconcile(in)
}

func TestReconcile_StandardCaseScenario(t *testing.T) {
	c := standardCase()
	now := t0.Add(48 * time.Hour)

	first := reconcileAt(c, now)
	assert.True(t, dec("6000").Equal(first.TotalCharge), "total %s", first.TotalCharge)
	assert.True(t, dec("6000").Equal(first.Balance), "balance %s", first.Balance)

	c.LastChargeUpdate = &now
	payments := []domain.Payment{{PaymentID: "p1", Amount: nullDec("2000"), Method: domain.PaymentCash}}
	second := reconcileAt(c, now, func(in *billing.Input) { in.Payments = payments })

	assert.True(t, dec("6000").Equal(second.TotalCharge), "total %s", second.TotalCharge)
	assert.True(t, dec("4000").Equal(second.Balance), "balance %s", second.Balance)
	assert.True(t, second.IncrementalStorage.IsZero())
	assert.False(t, second.ShouldAudit)
}

func TestReconcile_USDScenario(t *testing.T) {
	c := domain.Case{
		CaseID:       "MC-0002",
		RateCategory: domain.RateStandard,
		Currency:     domain.USD,
		DailyRateUSD: nullDec("130"),
		AdmittedAt:   t0,
	}

	b := reconcileAt(c, t0.Add(36*time.Hour))

	assert.True(t, dec("195").Equal(b.TotalCharge), "total %s", b.TotalCharge)
	assert.True(t, dec("1.5").Equal(b.StorageDays))
}

func TestReconcile_CancelledChargeExcluded(t *testing.T) {
	charges := []domain.ExtraCharge{
		{ChargeID: "x1", Amount: nullDec("1500"), Status: domain.ExtraChargePending},
		{ChargeID: "x2", Amount: nullDec("99999"), Status: domain.ExtraChargeCancelled},
		{ChargeID: "x3", Amount: nullDec("500"), Status: domain.ExtraChargePaid},
	}

	b := reconcileAt(standardCase(), t0, func(in *billing.Input) { in.ExtraCharges = charges })

	assert.True(t, dec("2000").Equal(b.ExtraChargesTotal), "extras %s", b.ExtraChargesTotal)
	assert.True(t, dec("2000").Equal(b.TotalCharge))
}

func TestReconcile_CoffinConversion(t *testing.T) {
	c := standardCase()
	coffins := []domain.CoffinAssignment{
		{
			AssignmentID:    "a1",
			UnitPrice:       nullDec("200"),
			Currency:        domain.USD,
			Quantity:        1,
			FXRateKESPerUSD: nullDec("130"),
			Status:          domain.AssignmentActive,
		},
		{
			AssignmentID: "a0",
			UnitPrice:    nullDec("50000"),
			Currency:     domain.KES,
			Quantity:     1,
			Status:       domain.AssignmentSuperseded,
		},
	}

	b := reconcileAt(c, t0, func(in *billing.Input) { in.Coffins = coffins })

	assert.True(t, dec("26000").Equal(b.CoffinCharges), "coffins %s", b.CoffinCharges)
	assert.Empty(t, b.Warnings)
}

func TestReconcile_CoffinInvalidRateSkipped(t *testing.T) {
	coffins := []domain.CoffinAssignment{{
		AssignmentID: "a1",
		UnitPrice:    nullDec("200"),
		Currency:     domain.USD,
		Quantity:     2,
		Status:       domain.AssignmentActive,
	}}

	b := reconcileAt(standardCase(), t0, func(in *billing.Input) { in.Coffins = coffins })

	assert.True(t, b.CoffinCharges.IsZero())
	require.Len(t, b.Warnings, 1)
	assert.False(t, b.Warnings[0].IsIntegrity())
	assert.Equal(t, "a1", b.Warnings[0].ID)
}

func TestReconcile_CoffinFallsBackToCaseFXRate(t *testing.T) {
	c := standardCase()
	c.FXRateKESPerUSD = nullDec("100")
	coffins := []domain.CoffinAssignment{{
		AssignmentID: "a1",
		UnitPrice:    nullDec("10"),
		Currency:     domain.USD,
		Quantity:     3,
		Status:       domain.AssignmentActive,
	}}

	b := reconcileAt(c, t0, func(in *billing.Input) { in.Coffins = coffins })

	assert.True(t, dec("3000").Equal(b.CoffinCharges), "coffins %s", b.CoffinCharges)
}

func TestReconcile_DirtyRowsTreatedAsZero(t *testing.T) {
	charges := []domain.ExtraCharge{
		{ChargeID: "x1", Status: domain.ExtraChargePending},
		{ChargeID: "x2", Amount: nullDec("300"), Status: domain.ExtraChargePending},
	}
	payments := []domain.Payment{{PaymentID: "p1"}}

	b := reconcileAt(standardCase(), t0, func(in *billing.Input) {
		in.ExtraCharges = charges
		in.Payments = payments
	})

	assert.True(t, dec("300").Equal(b.TotalCharge))
	assert.True(t, b.TotalPayments.IsZero())
	require.Len(t, b.Warnings, 2)
	for _, w := range b.Warnings {
		assert.True(t, w.IsIntegrity(), w.String())
	}
}

func TestReconcile_EmbalmingIncluded(t *testing.T) {
	c := standardCase()
	c.EmbalmingCost = nullDec("4500.50")

	b := reconcileAt(c, t0.Add(24*time.Hour))

	assert.True(t, dec("7500.50").Equal(b.TotalCharge), "total %s", b.TotalCharge)
}

func TestReconcile_UnreadableEmbalmingWarns(t *testing.T) {
	c := standardCase()
	c.EmbalmingCostUnreadable = true

	b := reconcileAt(c, t0.Add(24*time.Hour))

	assert.True(t, b.Embalming.IsZero())
	assert.True(t, dec("3000").Equal(b.TotalCharge), "total %s", b.TotalCharge)
	require.Len(t, b.Warnings, 1)
	assert.True(t, b.Warnings[0].IsIntegrity())
	assert.Equal(t, "case", b.Warnings[0].Source)
	assert.Equal(t, "MC-0001", b.Warnings[0].ID)
}

func TestReconcile_MissingEmbalmingIsSilent(t *testing.T) {
	b := reconcileAt(standardCase(), t0.Add(24*time.Hour))

	assert.True(t, b.Embalming.IsZero())
	assert.Empty(t, b.Warnings)
}

func TestReconcile_AuditThreshold(t *testing.T) {
	c := standardCase()
	// 3000 KES/day: 0.001 KES accrues in 28.8ms, 50 KES in 24 minutes.
	tiny := t0.Add(28800 * time.Microsecond)
	c.LastChargeUpdate = &t0

	below := reconcileAt(c, tiny)
	assert.False(t, below.ShouldAudit)

	above := reconcileAt(c, t0.Add(24*time.Minute))
	assert.True(t, above.ShouldAudit)
	assert.True(t, dec("50").Equal(above.IncrementalStorage), "incremental %s", above.IncrementalStorage)
}

func TestReconcile_Properties(t *testing.T) {
	c := standardCase()
	c.EmbalmingCost = nullDec("1000.333")
	extras := []domain.ExtraCharge{
		{ChargeID: "x1", Amount: nullDec("123.456"), Status: domain.ExtraChargeInvoiced},
		{ChargeID: "x2", Amount: nullDec("0.015"), Status: domain.ExtraChargePending},
	}
	payments := []domain.Payment{
		{PaymentID: "p1", Amount: nullDec("333.333")},
		{PaymentID: "p2", Amount: nullDec("0.005")},
	}

	for _, offset := range []time.Duration{-time.Hour, 0, time.Second, 7 * time.Hour, 91 * time.Hour} {
		b := reconcileAt(c, t0.Add(offset), func(in *billing.Input) {
			in.ExtraCharges = extras
			in.Payments = payments
		})

		assert.False(t, b.TotalCharge.IsNegative())
		assert.False(t, b.TotalStorage.IsNegative())
		assert.True(t, b.TotalCharge.Sub(b.TotalPayments).Equal(b.Balance))
		assert.LessOrEqual(t, b.Balance.Exponent(), int32(0))
		assert.GreaterOrEqual(t, b.Balance.Exponent(), int32(-billing.MoneyPlaces))
	}
}

func TestReconcile_RepeatedRunsOnlyMoveStorage(t *testing.T) {
	c := standardCase()
	extras := []domain.ExtraCharge{{ChargeID: "x1", Amount: nullDec("700"), Status: domain.ExtraChargePending}}
	payments := []domain.Payment{{PaymentID: "p1", Amount: nullDec("1000")}}
	with := func(in *billing.Input) {
		in.ExtraCharges = extras
		in.Payments = payments
	}

	first := reconcileAt(c, t0.Add(10*time.Hour), with)
	second := reconcileAt(c, t0.Add(10*time.Hour+2*time.Second), with)

	assert.True(t, first.ExtraChargesTotal.Equal(second.ExtraChargesTotal))
	assert.True(t, first.TotalPayments.Equal(second.TotalPayments))
	assert.True(t, first.CoffinCharges.Equal(second.CoffinCharges))

	// two seconds at 3000 KES/day is about 0.07 KES
	drift := second.TotalCharge.Sub(first.TotalCharge)
	assert.True(t, drift.LessThanOrEqual(dec("0.08")), "drift %s", drift)
	assert.False(t, drift.IsNegative())
}
