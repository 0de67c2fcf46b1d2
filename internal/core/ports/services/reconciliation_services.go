package services

import (
	"context"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
)

// ReconciliationSvc recomputes stored case totals from source rows.
type ReconciliationSvc interface {
	// ReconcileOne recomputes one case under a row lock and appends an audit
	// entry when storage moved by more than the audit epsilon.
	ReconcileOne(ctx context.Context, caseID string, now time.Time) (*domain.ReconciliationOutcome, error)

	// ReconcileAndComplete bills a case up to now and marks it complete in the
	// same locked transaction. A completed case returns ErrCaseClosed.
	ReconcileAndComplete(ctx context.Context, caseID string, userID string, now time.Time) (*domain.ReconciliationOutcome, error)

	// ReconcileAll reconciles every open case. Per-case failures are reported
	// in the BatchReport; the error is only set when the case list cannot be read.
	ReconcileAll(ctx context.Context, now time.Time) (*domain.BatchReport, error)

	// RefreshBalance reconciles c after a write and never fails the caller.
	RefreshBalance(ctx context.Context, c domain.Case) domain.BalanceRefresh
}

// ChargeHistorySvc is the audit logger.
type ChargeHistorySvc interface {
	AppendChargeHistory(ctx context.Context, entry domain.ChargeHistoryEntry) error
	ListChargeHistory(ctx context.Context, caseID string, limit int, offset int) ([]domain.ChargeHistoryEntry, error)
}
