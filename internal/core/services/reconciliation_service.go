package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/cache"
	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/metrics"
	"github.com/SscSPs/mortuary_billing_app/internal/utils/billing"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	defaultReconcileWorkers = 4
	reconcileMaxTries       = 2
	defaultCaseTimeout      = 30 * time.Second
)

type reconciliationService struct {
	BaseService
	caseRepo        portsrepo.CaseRepositoryWithTx
	coffinRepo      portsrepo.CoffinAssignmentStore
	extraChargeRepo portsrepo.ExtraChargeReader
	paymentRepo     portsrepo.PaymentRepositoryFacade
	audit           portssvc.ChargeHistorySvc

	rates        billing.RateTable
	epsilon      decimal.Decimal
	workers      int
	clock        clock.Clock
	metrics      *metrics.Recorder
	caseCache    *cache.CaseCache
	retryInitial time.Duration
	caseTimeout  time.Duration
}

// ReconciliationServiceOption is a functional option for configuring the reconciliation service
type ReconciliationServiceOption func(*reconciliationService)

// WithRateTable sets the daily storage rates.
func WithRateTable(t billing.RateTable) ReconciliationServiceOption {
	return func(s *reconciliationService) { s.rates = t }
}

// WithAuditEpsilon sets the smallest incremental charge that is audited.
func WithAuditEpsilon(eps decimal.Decimal) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		if eps.IsPositive() {
			s.epsilon = eps
		}
	}
}

// WithWorkers bounds the number of cases reconciled concurrently by ReconcileAll.
func WithWorkers(n int) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock sets the clock used by RefreshBalance.
func WithClock(c clock.Clock) ReconciliationServiceOption {
	return func(s *reconciliationService) { s.clock = c }
}

// WithMetrics sets the Prometheus recorder.
func WithMetrics(r *metrics.Recorder) ReconciliationServiceOption {
	return func(s *reconciliationService) { s.metrics = r }
}

// WithCaseCache sets the cache invalidated after every reconcile.
func WithCaseCache(c *cache.CaseCache) ReconciliationServiceOption {
	return func(s *reconciliationService) { s.caseCache = c }
}

// WithRetryInitialInterval sets the first backoff delay of a persistence retry.
func WithRetryInitialInterval(d time.Duration) ReconciliationServiceOption {
	return func(s *reconciliationService) { s.retryInitial = d }
}

// WithCaseTimeout bounds a single case inside ReconcileAll. The batch
// context does not cancel a case once it has started.
func WithCaseTimeout(d time.Duration) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		if d > 0 {
			s.caseTimeout = d
		}
	}
}

// NewReconciliationService creates the billing engine entry point.
func NewReconciliationService(
	caseRepo portsrepo.CaseRepositoryWithTx,
	coffinRepo portsrepo.CoffinAssignmentStore,
	extraChargeRepo portsrepo.ExtraChargeReader,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	audit portssvc.ChargeHistorySvc,
	options ...ReconciliationServiceOption,
) portssvc.ReconciliationSvc {
	s := &reconciliationService{
		caseRepo:        caseRepo,
		coffinRepo:      coffinRepo,
		extraChargeRepo: extraChargeRepo,
		paymentRepo:     paymentRepo,
		audit:           audit,
		rates:           billing.DefaultRateTable(),
		epsilon:         billing.DefaultAuditEpsilon,
		workers:         defaultReconcileWorkers,
		clock:           clock.New(),
		retryInitial:    200 * time.Millisecond,
		caseTimeout:     defaultCaseTimeout,
	}
	for _, option := range options {
		option(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRecorder(nil)
	}
	return s
}

// ReconcileOne recomputes a single case.
func (s *reconciliationService) ReconcileOne(ctx context.Context, caseID string, now time.Time) (*domain.ReconciliationOutcome, error) {
	return s.reconcile(ctx, caseID, now, "")
}

// ReconcileAndComplete writes the final bill and closes the case while the
// row lock is held, so no payment or charge can land between the two.
func (s *reconciliationService) ReconcileAndComplete(ctx context.Context, caseID string, userID string, now time.Time) (*domain.ReconciliationOutcome, error) {
	if userID == "" {
		userID = domain.SystemActor
	}
	return s.reconcile(ctx, caseID, now, userID)
}

// reconcile runs reconcileInTx with retries. A non-empty completeBy also
// closes the case in the same transaction.
func (s *reconciliationService) reconcile(ctx context.Context, caseID string, now time.Time, completeBy string) (*domain.ReconciliationOutcome, error) {
	logger := s.GetLogger(ctx).With(slog.String("case_id", caseID))

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInitial

	var bd billing.Breakdown
	var locked domain.Case
	outcome, err := backoff.Retry(ctx, func() (*domain.ReconciliationOutcome, error) {
		out, c, breakdown, err := s.reconcileInTx(ctx, caseID, now, completeBy)
		if err != nil {
			if errors.Is(err, apperrors.ErrCaseNotFound) || errors.Is(err, apperrors.ErrCaseClosed) || ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		bd, locked = breakdown, c
		return out, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(reconcileMaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("Reconcile failed, retrying", slog.String("error", err.Error()), slog.Duration("retry_in", next))
		}),
	)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCaseNotFound):
			// Gone between listing and locking.
			s.metrics.ReconcileCases.WithLabelValues(metrics.ResultSkipped).Inc()
			logger.Debug("Case vanished before reconcile")
			return nil, err
		case errors.Is(err, apperrors.ErrCaseClosed):
			return nil, err
		}
		s.metrics.ReconcileCases.WithLabelValues(metrics.ResultFailed).Inc()
		if !errors.Is(err, apperrors.ErrPersistence) {
			err = fmt.Errorf("%w: case %s: %v", apperrors.ErrPersistence, caseID, err)
		}
		logger.Error("Reconcile failed", slog.String("error", err.Error()))
		return nil, err
	}

	if outcome.Skipped {
		s.metrics.ReconcileCases.WithLabelValues(metrics.ResultSkipped).Inc()
		return outcome, nil
	}

	s.invalidate(caseID)

	for _, w := range bd.Warnings {
		if w.IsIntegrity() {
			s.metrics.DataIntegrityWarnings.Inc()
		}
		logger.Warn("Source row excluded from charge", slog.String("warning", w.String()))
	}

	if bd.ShouldAudit {
		auditErr := s.audit.AppendChargeHistory(ctx, domain.ChargeHistoryEntry{
			EntryID:     uuid.NewString(),
			CaseID:      locked.ID,
			ChargeType:  domain.ChargeDailyStorage,
			Amount:      bd.IncrementalStorage,
			Currency:    locked.Currency,
			Description: bd.HistoryDescription(locked.Currency),
			CreatedAt:   now,
		})
		if auditErr != nil {
			outcome.AuditError = auditErr
		} else {
			outcome.AuditWritten = true
		}
	}

	s.metrics.ReconcileCases.WithLabelValues(metrics.ResultSuccess).Inc()
	logger.Debug("Case reconciled",
		slog.String("total_charge", outcome.TotalCharge.String()),
		slog.String("balance", outcome.Balance.String()),
		slog.String("incremental_storage", outcome.IncrementalStorage.String()))
	return outcome, nil
}

// reconcileInTx is one attempt: lock, load, compute, write, commit.
func (s *reconciliationService) reconcileInTx(ctx context.Context, caseID string, now time.Time, completeBy string) (*domain.ReconciliationOutcome, domain.Case, billing.Breakdown, error) {
	tx, err := s.caseRepo.Begin(ctx)
	if err != nil {
		return nil, domain.Case{}, billing.Breakdown{}, err
	}
	defer func() { _ = s.caseRepo.Rollback(ctx, tx) }()

	c, err := s.caseRepo.FindCaseForUpdate(ctx, tx, caseID)
	if err != nil {
		return nil, domain.Case{}, billing.Breakdown{}, err
	}

	if c.Status.IsTerminal() {
		if completeBy != "" {
			return nil, *c, billing.Breakdown{}, fmt.Errorf("%w: %s", apperrors.ErrCaseClosed, caseID)
		}
		return storedOutcome(c), *c, billing.Breakdown{}, nil
	}

	coffins, err := s.coffinRepo.ListActiveAssignmentsInTx(ctx, tx, c.ID)
	if err != nil {
		return nil, *c, billing.Breakdown{}, err
	}
	extras, err := s.extraChargeRepo.ListExtraChargesInTx(ctx, tx, c.ID)
	if err != nil {
		return nil, *c, billing.Breakdown{}, err
	}
	payments, err := s.paymentRepo.ListPaymentsInTx(ctx, tx, c.ID)
	if err != nil {
		return nil, *c, billing.Breakdown{}, err
	}

	bd := billing.Reconcile(billing.Input{
		Case:         *c,
		Coffins:      coffins,
		ExtraCharges: extras,
		Payments:     payments,
		Now:          now,
		Rates:        s.rates,
		Epsilon:      s.epsilon,
	})

	// last_charge_update never moves backwards.
	stamp := now
	if baseline := c.AccrualBaseline(); stamp.Before(baseline) {
		stamp = baseline
	}

	if err := s.caseRepo.UpdateCaseTotalsInTx(ctx, tx, c.ID, bd.TotalCharge, bd.Balance, stamp); err != nil {
		return nil, *c, billing.Breakdown{}, err
	}
	if completeBy != "" {
		if err := s.caseRepo.CompleteCaseInTx(ctx, tx, c.ID, completeBy, now); err != nil {
			return nil, *c, billing.Breakdown{}, err
		}
	}
	if err := s.caseRepo.Commit(ctx, tx); err != nil {
		return nil, *c, billing.Breakdown{}, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	warnings := make([]string, 0, len(bd.Warnings))
	for _, w := range bd.Warnings {
		warnings = append(warnings, w.String())
	}

	return &domain.ReconciliationOutcome{
		CaseID:             c.CaseID,
		Currency:           c.Currency,
		StorageDays:        bd.StorageDays,
		StorageCharge:      bd.TotalStorage,
		CoffinCharges:      bd.CoffinCharges,
		ExtraCharges:       bd.ExtraChargesTotal,
		Embalming:          bd.Embalming,
		TotalCharge:        bd.TotalCharge,
		TotalPayments:      bd.TotalPayments,
		Balance:            bd.Balance,
		IncrementalStorage: bd.IncrementalStorage,
		LastChargeUpdate:   stamp,
		Warnings:           warnings,
	}, *c, bd, nil
}

func storedOutcome(c *domain.Case) *domain.ReconciliationOutcome {
	out := &domain.ReconciliationOutcome{
		CaseID:      c.CaseID,
		Currency:    c.Currency,
		TotalCharge: c.TotalCharge,
		Balance:     c.Balance,
		Skipped:     true,
	}
	if c.LastChargeUpdate != nil {
		out.LastChargeUpdate = *c.LastChargeUpdate
	}
	return out
}

func (s *reconciliationService) invalidate(caseID string) {
	if s.caseCache != nil {
		s.caseCache.Invalidate(caseID)
	}
}

// ReconcileAll fans out over every open case. Cancellation is honoured
// between cases; a case already started runs to completion.
func (s *reconciliationService) ReconcileAll(ctx context.Context, now time.Time) (*domain.BatchReport, error) {
	runID := uuid.NewString()
	logger := s.GetLogger(ctx).With(slog.String("component", "reconciler"), slog.String("run_id", runID))

	report := &domain.BatchReport{
		RunID:                  runID,
		StartedAt:              s.clock.Now(),
		TotalIncrementalCharge: make(map[domain.CurrencyCode]decimal.Decimal),
	}

	ids, err := s.caseRepo.ListOpenCaseIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open cases: %w", err)
	}
	logger.Info("Reconciliation batch started", slog.Int("cases", len(ids)))

	s.metrics.ReconcileRunning.Set(1)
	defer s.metrics.ReconcileRunning.Set(0)

	// The group context is not used for the per-case work: one failed case
	// must not cancel the others.
	var g errgroup.Group
	g.SetLimit(s.workers)

	var mu sync.Mutex
	for _, caseID := range ids {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			// Past this check the case runs to completion; only its own
			// timeout can stop it.
			caseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.caseTimeout)
			defer cancel()
			outcome, err := s.ReconcileOne(caseCtx, caseID, now)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, apperrors.ErrCaseNotFound):
				report.Skipped++
			case err != nil:
				report.Failed++
				report.Failures = append(report.Failures, domain.CaseFailure{CaseID: caseID, Reason: err.Error()})
			case outcome.Skipped:
				report.Skipped++
			default:
				report.Processed++
				report.TotalIncrementalCharge[outcome.Currency] = report.TotalIncrementalCharge[outcome.Currency].Add(outcome.IncrementalStorage)
				if outcome.AuditError != nil {
					report.AuditFailures++
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Cancelled = ctx.Err() != nil
	report.EndedAt = s.clock.Now()
	s.metrics.BatchDuration.Observe(report.EndedAt.Sub(report.StartedAt).Seconds())

	attrs := []any{
		slog.Int("processed", report.Processed),
		slog.Int("failed", report.Failed),
		slog.Int("skipped", report.Skipped),
		slog.Int("audit_failures", report.AuditFailures),
		slog.Bool("cancelled", report.Cancelled),
	}
	for cur, total := range report.TotalIncrementalCharge {
		attrs = append(attrs, slog.String("incremental_"+string(cur), total.String()))
	}
	if report.Failed > 0 {
		logger.Warn("Reconciliation batch finished with failures", attrs...)
	} else {
		logger.Info("Reconciliation batch finished", attrs...)
	}
	return report, nil
}

// RefreshBalance reconciles c after a write. A failure is logged and handed
// back with the pre-write case so the caller can show the last known value.
func (s *reconciliationService) RefreshBalance(ctx context.Context, c domain.Case) domain.BalanceRefresh {
	outcome, err := s.ReconcileOne(ctx, c.CaseID, s.clock.Now())
	if err != nil {
		s.LogWarn(ctx, "Could not refresh balance after write", slog.String("case_id", c.CaseID), slog.String("error", err.Error()))
		return domain.BalanceRefresh{LastKnown: c, Err: err}
	}
	return domain.BalanceRefresh{Outcome: outcome, LastKnown: c}
}
