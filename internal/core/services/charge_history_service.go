package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/metrics"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

// chargeHistoryService is the audit logger. Writes are attempted twice and a
// final failure is reported, never hidden.
type chargeHistoryService struct {
	BaseService
	historyRepo  portsrepo.ChargeHistoryRepository
	caseRepo     portsrepo.CaseReader
	metrics      *metrics.Recorder
	retryInitial time.Duration
}

// NewChargeHistoryService creates the audit logger.
func NewChargeHistoryService(historyRepo portsrepo.ChargeHistoryRepository, caseRepo portsrepo.CaseReader, recorder *metrics.Recorder) portssvc.ChargeHistorySvc {
	if recorder == nil {
		recorder = metrics.NewRecorder(nil)
	}
	return &chargeHistoryService{
		historyRepo:  historyRepo,
		caseRepo:     caseRepo,
		metrics:      recorder,
		retryInitial: 100 * time.Millisecond,
	}
}

// AppendChargeHistory inserts entry, retrying once. The returned error wraps
// apperrors.ErrAuditLog.
func (s *chargeHistoryService) AppendChargeHistory(ctx context.Context, entry domain.ChargeHistoryEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInitial

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.historyRepo.AppendChargeHistory(ctx, entry)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(2))
	if err != nil {
		s.metrics.AuditLogFailures.Inc()
		s.LogError(ctx, err, "Failed to append charge history",
			slog.Int64("case_row_id", entry.CaseID),
			slog.String("amount", entry.Amount.String()),
			slog.String("currency", string(entry.Currency)))
		return fmt.Errorf("%w: %v", apperrors.ErrAuditLog, err)
	}
	return nil
}

// ListChargeHistory returns the audit trail of a case, newest first.
func (s *chargeHistoryService) ListChargeHistory(ctx context.Context, caseID string, limit int, offset int) ([]domain.ChargeHistoryEntry, error) {
	c, err := s.caseRepo.FindCaseByCaseID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case for charge history: %w", err)
	}
	entries, err := s.historyRepo.ListChargeHistory(ctx, c.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list charge history: %w", err)
	}
	return entries, nil
}
