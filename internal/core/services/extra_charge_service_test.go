package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/SscSPs/mortuary_billing_app/internal/core/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateExtraCharge(t *testing.T) {
	ctx := context.Background()

	t.Run("records pending charge and refreshes", func(t *testing.T) {
		cases := new(MockCaseRepository)
		charges := new(MockExtraChargeRepository)
		reconciler := new(MockReconciliationService)
		c := openCase(4, "MC-4")
		cases.On("FindCaseByCaseID", ctx, "MC-4").Return(c, nil)
		charges.On("SaveExtraCharge", ctx, mock.MatchedBy(func(ch domain.ExtraCharge) bool {
			return ch.CaseID == 4 && ch.Status == domain.ExtraChargePending &&
				ch.Amount.Decimal.Equal(decimal.NewFromInt(2500)) && ch.Description == "Hearse hire"
		})).Return(nil).Once()
		reconciler.On("RefreshBalance", ctx, *c).Return(domain.BalanceRefresh{LastKnown: *c, Err: apperrors.ErrPersistence}).Once()

		svc := services.NewExtraChargeService(charges, cases, reconciler, clock.NewFakeClock(t0))
		ch, refresh, err := svc.CreateExtraCharge(ctx, "MC-4", dto.CreateExtraChargeRequest{Amount: decPtr("2500"), Description: " Hearse hire "}, "user-1")

		require.NoError(t, err)
		assert.NotEmpty(t, ch.ChargeID)
		assert.Equal(t, t0, ch.ServiceDate)
		// A failed refresh does not fail the write.
		assert.True(t, refresh.Stale())
		charges.AssertExpectations(t)
	})

	t.Run("case completed before insert skips the refresh", func(t *testing.T) {
		cases := new(MockCaseRepository)
		charges := new(MockExtraChargeRepository)
		reconciler := new(MockReconciliationService)
		cases.On("FindCaseByCaseID", ctx, "MC-4").Return(openCase(4, "MC-4"), nil)
		charges.On("SaveExtraCharge", ctx, mock.Anything).Return(fmt.Errorf("%w: case row 4", apperrors.ErrCaseClosed)).Once()

		svc := services.NewExtraChargeService(charges, cases, reconciler, clock.NewFakeClock(t0))
		_, _, err := svc.CreateExtraCharge(ctx, "MC-4", dto.CreateExtraChargeRequest{Amount: decPtr("2500"), Description: "Hearse hire"}, "user-1")

		assert.ErrorIs(t, err, apperrors.ErrCaseClosed)
		reconciler.AssertNotCalled(t, "RefreshBalance", mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		for _, req := range []dto.CreateExtraChargeRequest{
			{Amount: decPtr("0"), Description: "x"},
			{Amount: decPtr("-10"), Description: "x"},
			{Amount: decPtr("10"), Description: "   "},
		} {
			charges := new(MockExtraChargeRepository)
			svc := services.NewExtraChargeService(charges, new(MockCaseRepository), new(MockReconciliationService), clock.NewFakeClock(t0))
			_, _, err := svc.CreateExtraCharge(ctx, "MC-4", req, "user-1")
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			charges.AssertNotCalled(t, "SaveExtraCharge", mock.Anything, mock.Anything)
		}
	})
}

func TestUpdateExtraChargeStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    domain.ExtraChargeStatus
		next       string
		caseStatus domain.CaseStatus
		wantErrIs  error
	}{
		{name: "pending to invoiced", current: domain.ExtraChargePending, next: "invoiced", caseStatus: domain.CaseInStorage},
		{name: "invoiced to cancelled", current: domain.ExtraChargeInvoiced, next: "cancelled", caseStatus: domain.CaseReleased},
		{name: "paid is immutable", current: domain.ExtraChargePaid, next: "cancelled", caseStatus: domain.CaseInStorage, wantErrIs: apperrors.ErrValidation},
		{name: "cancelled is immutable", current: domain.ExtraChargeCancelled, next: "pending", caseStatus: domain.CaseInStorage, wantErrIs: apperrors.ErrValidation},
		{name: "unknown status", current: domain.ExtraChargePending, next: "refunded", caseStatus: domain.CaseInStorage, wantErrIs: apperrors.ErrValidation},
		{name: "case closed", current: domain.ExtraChargePending, next: "paid", caseStatus: domain.CaseComplete, wantErrIs: apperrors.ErrCaseClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cases := new(MockCaseRepository)
			charges := new(MockExtraChargeRepository)
			reconciler := new(MockReconciliationService)

			c := openCase(4, "MC-4")
			c.Status = tt.caseStatus
			charges.On("FindExtraChargeByID", ctx, "x-1").Return(&domain.ExtraCharge{
				ChargeID: "x-1",
				CaseID:   4,
				Amount:   decimal.NewNullDecimal(decimal.NewFromInt(100)),
				Status:   tt.current,
			}, nil).Maybe()
			cases.On("FindCaseByID", ctx, int64(4)).Return(c, nil).Maybe()
			charges.On("UpdateExtraChargeStatus", ctx, "x-1", tt.current, domain.ExtraChargeStatus(tt.next), "user-1", t0).Return(nil).Maybe()
			reconciler.On("RefreshBalance", ctx, *c).Return(domain.BalanceRefresh{LastKnown: *c}).Maybe()

			svc := services.NewExtraChargeService(charges, cases, reconciler, clock.NewFakeClock(t0))
			ch, _, err := svc.UpdateExtraChargeStatus(ctx, "x-1", dto.UpdateExtraChargeStatusRequest{Status: tt.next}, "user-1")

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				charges.AssertNotCalled(t, "UpdateExtraChargeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ExtraChargeStatus(tt.next), ch.Status)
			assert.Equal(t, "user-1", ch.LastUpdatedBy)
			reconciler.AssertCalled(t, "RefreshBalance", ctx, *c)
		})
	}
}
