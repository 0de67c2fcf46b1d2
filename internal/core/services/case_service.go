package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/cache"
	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/shopspring/decimal"
)

const defaultListLimit = 20

type caseService struct {
	BaseService
	caseRepo   portsrepo.CaseRepositoryFacade
	reconciler portssvc.ReconciliationSvc
	cache      *cache.CaseCache
	clock      clock.Clock
}

// NewCaseService creates the case service. caseCache may be nil.
func NewCaseService(caseRepo portsrepo.CaseRepositoryFacade, reconciler portssvc.ReconciliationSvc, caseCache *cache.CaseCache, clk clock.Clock) portssvc.CaseSvcFacade {
	if clk == nil {
		clk = clock.New()
	}
	return &caseService{
		caseRepo:   caseRepo,
		reconciler: reconciler,
		cache:      caseCache,
		clock:      clk,
	}
}

// loadOpenCase reads a case straight from the database and rejects completed ones.
func loadOpenCase(ctx context.Context, reader portsrepo.CaseReader, caseID string) (*domain.Case, error) {
	c, err := reader.FindCaseByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCaseClosed, caseID)
	}
	return c, nil
}

func optionalAmount(d *decimal.Decimal, field string, allowZero bool) (decimal.NullDecimal, error) {
	if d == nil {
		return decimal.NullDecimal{}, nil
	}
	if d.IsNegative() || (!allowZero && d.IsZero()) {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s must be positive", apperrors.ErrValidation, field)
	}
	return decimal.NewNullDecimal(*d), nil
}

func (s *caseService) invalidate(caseID string) {
	if s.cache != nil {
		s.cache.Invalidate(caseID)
	}
}

// CreateCase records a new admission with zero totals.
func (s *caseService) CreateCase(ctx context.Context, req dto.CreateCaseRequest, userID string) (*domain.Case, error) {
	currency, ok := domain.ParseCurrencyCode(req.Currency)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, req.Currency)
	}
	category := domain.RateCategory(strings.ToLower(strings.TrimSpace(req.RateCategory)))
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown rate category %q", apperrors.ErrValidation, req.RateCategory)
	}
	caseID := strings.TrimSpace(req.CaseID)
	if caseID == "" {
		return nil, fmt.Errorf("%w: caseID is required", apperrors.ErrValidation)
	}

	dailyRate, err := optionalAmount(req.DailyRateUSD, "dailyRateUSD", false)
	if err != nil {
		return nil, err
	}
	fxRate, err := optionalAmount(req.FXRateKESPerUSD, "fxRateKESPerUSD", false)
	if err != nil {
		return nil, err
	}
	embalming, err := optionalAmount(req.EmbalmingCost, "embalmingCost", true)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	admittedAt := now
	if req.AdmittedAt != nil {
		admittedAt = req.AdmittedAt.UTC()
	}
	if admittedAt.After(now) {
		return nil, fmt.Errorf("%w: admittedAt cannot be in the future", apperrors.ErrValidation)
	}
	baseline := admittedAt

	c := domain.Case{
		CaseID:           caseID,
		DeceasedName:     strings.TrimSpace(req.DeceasedName),
		RateCategory:     category,
		Currency:         currency,
		DailyRateUSD:     dailyRate,
		FXRateKESPerUSD:  fxRate,
		AdmittedAt:       admittedAt,
		LastChargeUpdate: &baseline,
		TotalCharge:      decimal.Zero,
		Balance:          decimal.Zero,
		EmbalmingCost:    embalming,
		Status:           domain.CaseAdmitted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.caseRepo.SaveCase(ctx, c); err != nil {
		s.LogError(ctx, err, "Failed to save case", slog.String("case_id", caseID))
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	saved, err := s.caseRepo.FindCaseByCaseID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created case: %w", err)
	}
	s.LogInfo(ctx, "Case admitted", slog.String("case_id", caseID), slog.String("currency", string(currency)))
	return saved, nil
}

// GetCase reads through the cache.
func (s *caseService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	if s.cache == nil {
		return s.caseRepo.FindCaseByCaseID(ctx, caseID)
	}
	return s.cache.Get(ctx, caseID, s.caseRepo.FindCaseByCaseID)
}

// ListCases lists cases, optionally filtered by status.
func (s *caseService) ListCases(ctx context.Context, status *domain.CaseStatus, limit int, offset int) ([]domain.Case, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	cases, err := s.caseRepo.ListCases(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// UpdateEmbalmingCost sets or clears the embalming cost and refreshes the balance.
func (s *caseService) UpdateEmbalmingCost(ctx context.Context, caseID string, req dto.UpdateEmbalmingRequest, userID string) (*domain.Case, domain.BalanceRefresh, error) {
	c, err := loadOpenCase(ctx, s.caseRepo, caseID)
	if err != nil {
		return nil, domain.BalanceRefresh{}, err
	}
	cost, err := optionalAmount(req.EmbalmingCost, "embalmingCost", true)
	if err != nil {
		return nil, domain.BalanceRefresh{}, err
	}

	if err := s.caseRepo.UpdateEmbalmingCost(ctx, caseID, cost, userID, s.clock.Now()); err != nil {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("failed to update embalming cost: %w", err)
	}
	s.invalidate(caseID)

	refresh := s.reconciler.RefreshBalance(ctx, *c)

	updated, err := s.caseRepo.FindCaseByCaseID(ctx, caseID)
	if err != nil {
		return nil, refresh, fmt.Errorf("failed to reload case: %w", err)
	}
	return updated, refresh, nil
}

// UpdateCaseStatus moves an open case between admitted, in_storage and released.
func (s *caseService) UpdateCaseStatus(ctx context.Context, caseID string, req dto.UpdateCaseStatusRequest, userID string) (*domain.Case, error) {
	status := domain.CaseStatus(req.Status)
	if status.IsTerminal() {
		return nil, fmt.Errorf("%w: use the complete endpoint to close a case", apperrors.ErrValidation)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown case status %q", apperrors.ErrValidation, req.Status)
	}
	if _, err := loadOpenCase(ctx, s.caseRepo, caseID); err != nil {
		return nil, err
	}

	if err := s.caseRepo.UpdateCaseStatus(ctx, caseID, status, userID, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("failed to update case status: %w", err)
	}
	s.invalidate(caseID)
	return s.caseRepo.FindCaseByCaseID(ctx, caseID)
}

// CompleteCase bills the case up to now and closes it. The case stays open
// when the final reconcile fails.
func (s *caseService) CompleteCase(ctx context.Context, caseID string, userID string) (*domain.Case, *domain.ReconciliationOutcome, error) {
	if _, err := loadOpenCase(ctx, s.caseRepo, caseID); err != nil {
		return nil, nil, err
	}

	outcome, err := s.reconciler.ReconcileAndComplete(ctx, caseID, userID, s.clock.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrCaseClosed) {
			return nil, nil, err
		}
		s.LogError(ctx, err, "Final reconcile failed, case left open", slog.String("case_id", caseID))
		return nil, nil, fmt.Errorf("failed final reconcile: %w", err)
	}
	s.invalidate(caseID)
	s.LogInfo(ctx, "Case completed", slog.String("case_id", caseID), slog.String("final_balance", outcome.Balance.String()))

	c, err := s.caseRepo.FindCaseByCaseID(ctx, caseID)
	if err != nil {
		return nil, outcome, fmt.Errorf("failed to reload case: %w", err)
	}
	return c, outcome, nil
}
