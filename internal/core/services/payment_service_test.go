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

func TestRecordPayment(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.RecordPaymentRequest
		caseStatus domain.CaseStatus
		saveErr    error
		wantErrIs  error
	}{
		{
			name:       "mpesa payment",
			req:        dto.RecordPaymentRequest{Amount: decPtr("2000"), Method: "mpesa", ReferenceCode: " QK12ABC "},
			caseStatus: domain.CaseInStorage,
		},
		{
			name:      "zero amount",
			req:       dto.RecordPaymentRequest{Amount: decPtr("0"), Method: "cash", ReferenceCode: "R-1"},
			wantErrIs: apperrors.ErrValidation,
		},
		{
			name:      "unknown method",
			req:       dto.RecordPaymentRequest{Amount: decPtr("10"), Method: "crypto", ReferenceCode: "R-1"},
			wantErrIs: apperrors.ErrValidation,
		},
		{
			name:      "missing reference",
			req:       dto.RecordPaymentRequest{Amount: decPtr("10"), Method: "cash", ReferenceCode: " "},
			wantErrIs: apperrors.ErrValidation,
		},
		{
			name:       "completed case",
			req:        dto.RecordPaymentRequest{Amount: decPtr("10"), Method: "cash", ReferenceCode: "R-1"},
			caseStatus: domain.CaseComplete,
			wantErrIs:  apperrors.ErrCaseClosed,
		},
		{
			// The case passed the open check but was completed before the insert
			// took its share lock; the final bill already stands.
			name:       "case completed before insert",
			req:        dto.RecordPaymentRequest{Amount: decPtr("10"), Method: "cash", ReferenceCode: "R-2"},
			caseStatus: domain.CaseInStorage,
			saveErr:    fmt.Errorf("%w: case row 5", apperrors.ErrCaseClosed),
			wantErrIs:  apperrors.ErrCaseClosed,
		},
		{
			name:       "reused reference",
			req:        dto.RecordPaymentRequest{Amount: decPtr("10"), Method: "cash", ReferenceCode: "R-1"},
			caseStatus: domain.CaseInStorage,
			saveErr:    apperrors.NewDuplicateError("payment reference already recorded for case"),
			wantErrIs:  apperrors.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cases := new(MockCaseRepository)
			payments := new(MockPaymentRepository)
			reconciler := new(MockReconciliationService)

			c := openCase(5, "MC-5")
			c.Status = tt.caseStatus
			cases.On("FindCaseByCaseID", ctx, "MC-5").Return(c, nil).Maybe()
			payments.On("SavePayment", ctx, mock.Anything).Return(tt.saveErr).Maybe()
			reconciler.On("RefreshBalance", ctx, *c).Return(domain.BalanceRefresh{
				Outcome:   &domain.ReconciliationOutcome{CaseID: "MC-5", Balance: decimal.NewFromInt(4000)},
				LastKnown: *c,
			}).Maybe()

			svc := services.NewPaymentService(payments, cases, reconciler, clock.NewFakeClock(t0))
			p, refresh, err := svc.RecordPayment(ctx, "MC-5", tt.req, "user-1")

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				reconciler.AssertNotCalled(t, "RefreshBalance", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "QK12ABC", p.ReferenceCode)
			assert.Equal(t, domain.PaymentMpesa, p.Method)
			assert.Equal(t, int64(5), p.CaseID)
			assert.True(t, refresh.Outcome.Balance.Equal(decimal.NewFromInt(4000)))
		})
	}
}

func TestListPayments(t *testing.T) {
	ctx := context.Background()
	cases := new(MockCaseRepository)
	payments := new(MockPaymentRepository)
	cases.On("FindCaseByCaseID", ctx, "MC-5").Return(openCase(5, "MC-5"), nil)
	payments.On("ListPaymentsByCase", ctx, int64(5)).Return([]domain.Payment{payment("p-1", "100"), payment("p-2", "200")}, nil)

	svc := services.NewPaymentService(payments, cases, new(MockReconciliationService), nil)
	list, err := svc.ListPayments(ctx, "MC-5")

	require.NoError(t, err)
	assert.Len(t, list, 2)
}
