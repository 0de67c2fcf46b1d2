package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type coffinService struct {
	BaseService
	coffinRepo portsrepo.CoffinRepositoryFacade
	caseRepo   portsrepo.CaseReader
	reconciler portssvc.ReconciliationSvc
	clock      clock.Clock
}

// NewCoffinService creates the coffin catalog and assignment service.
func NewCoffinService(coffinRepo portsrepo.CoffinRepositoryFacade, caseRepo portsrepo.CaseReader, reconciler portssvc.ReconciliationSvc, clk clock.Clock) portssvc.CoffinSvcFacade {
	if clk == nil {
		clk = clock.New()
	}
	return &coffinService{coffinRepo: coffinRepo, caseRepo: caseRepo, reconciler: reconciler, clock: clk}
}

// CreateCoffin adds a catalog entry.
func (s *coffinService) CreateCoffin(ctx context.Context, req dto.CreateCoffinRequest, userID string) (*domain.Coffin, error) {
	currency, ok := domain.ParseCurrencyCode(req.Currency)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, req.Currency)
	}
	if req.UnitPrice == nil || req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unitPrice must be zero or more", apperrors.ErrValidation)
	}
	fxRate, err := optionalAmount(req.FXRateKESPerUSD, "fxRateKESPerUSD", false)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	coffin := domain.Coffin{
		CoffinID:        strings.TrimSpace(req.CoffinID),
		Name:            strings.TrimSpace(req.Name),
		UnitPrice:       *req.UnitPrice,
		Currency:        currency,
		FXRateKESPerUSD: fxRate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.coffinRepo.SaveCoffin(ctx, coffin); err != nil {
		return nil, fmt.Errorf("failed to create coffin: %w", err)
	}
	return &coffin, nil
}

// ListCoffins lists the catalog.
func (s *coffinService) ListCoffins(ctx context.Context) ([]domain.Coffin, error) {
	coffins, err := s.coffinRepo.ListCoffins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coffins: %w", err)
	}
	return coffins, nil
}

// AssignCoffin snapshots the catalog entry onto the case. Later catalog price
// changes do not affect the assignment.
func (s *coffinService) AssignCoffin(ctx context.Context, caseID string, req dto.AssignCoffinRequest, userID string) (*domain.CoffinAssignment, domain.BalanceRefresh, error) {
	c, err := loadOpenCase(ctx, s.caseRepo, caseID)
	if err != nil {
		return nil, domain.BalanceRefresh{}, err
	}
	coffin, err := s.coffinRepo.FindCoffinByID(ctx, req.CoffinID)
	if err != nil {
		return nil, domain.BalanceRefresh{}, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}

	now := s.clock.Now()
	assignment := domain.CoffinAssignment{
		AssignmentID:    uuid.NewString(),
		CaseID:          c.ID,
		CoffinID:        coffin.CoffinID,
		UnitPrice:       decimal.NewNullDecimal(coffin.UnitPrice),
		Currency:        coffin.Currency,
		Quantity:        quantity,
		FXRateKESPerUSD: coffin.FXRateKESPerUSD,
		Status:          domain.AssignmentActive,
		AssignedAt:      now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.coffinRepo.SaveActiveAssignment(ctx, assignment); err != nil {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("failed to assign coffin: %w", err)
	}
	s.LogInfo(ctx, "Coffin assigned", slog.String("case_id", caseID), slog.String("coffin_id", coffin.CoffinID), slog.Int("quantity", quantity))

	return &assignment, s.reconciler.RefreshBalance(ctx, *c), nil
}

// ListAssignments lists every assignment of a case, superseded ones included.
func (s *coffinService) ListAssignments(ctx context.Context, caseID string) ([]domain.CoffinAssignment, error) {
	c, err := s.caseRepo.FindCaseByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	list, err := s.coffinRepo.ListAssignmentsByCase(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coffin assignments: %w", err)
	}
	return list, nil
}
