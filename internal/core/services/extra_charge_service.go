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

type extraChargeService struct {
	BaseService
	chargeRepo portsrepo.ExtraChargeRepositoryFacade
	caseRepo   portsrepo.CaseReader
	reconciler portssvc.ReconciliationSvc
	clock      clock.Clock
}

// NewExtraChargeService creates the extra charge service.
func NewExtraChargeService(chargeRepo portsrepo.ExtraChargeRepositoryFacade, caseRepo portsrepo.CaseReader, reconciler portssvc.ReconciliationSvc, clk clock.Clock) portssvc.ExtraChargeSvcFacade {
	if clk == nil {
		clk = clock.New()
	}
	return &extraChargeService{chargeRepo: chargeRepo, caseRepo: caseRepo, reconciler: reconciler, clock: clk}
}

// CreateExtraCharge records a pending charge and refreshes the balance.
func (s *extraChargeService) CreateExtraCharge(ctx context.Context, caseID string, req dto.CreateExtraChargeRequest, userID string) (*domain.ExtraCharge, domain.BalanceRefresh, error) {
	if req.Amount == nil || !req.Amount.IsPositive() {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	c, err := loadOpenCase(ctx, s.caseRepo, caseID)
	if err != nil {
		return nil, domain.BalanceRefresh{}, err
	}

	now := s.clock.Now()
	serviceDate := now
	if req.ServiceDate != nil {
		serviceDate = req.ServiceDate.UTC()
	}

	charge := domain.ExtraCharge{
		ChargeID:    uuid.NewString(),
		CaseID:      c.ID,
		Amount:      decimal.NewNullDecimal(*req.Amount),
		Status:      domain.ExtraChargePending,
		ServiceDate: serviceDate,
		Description: description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.chargeRepo.SaveExtraCharge(ctx, charge); err != nil {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("failed to create extra charge: %w", err)
	}

	return &charge, s.reconciler.RefreshBalance(ctx, *c), nil
}

// UpdateExtraChargeStatus applies a lifecycle transition. Paid and cancelled
// charges are immutable.
func (s *extraChargeService) UpdateExtraChargeStatus(ctx context.Context, chargeID string, req dto.UpdateExtraChargeStatusRequest, userID string) (*domain.ExtraCharge, domain.BalanceRefresh, error) {
	next := domain.ExtraChargeStatus(req.Status)
	if !next.IsValid() {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, req.Status)
	}

	charge, err := s.chargeRepo.FindExtraChargeByID(ctx, chargeID)
	if err != nil {
		return nil, domain.BalanceRefresh{}, err
	}
	if !charge.Status.CanTransitionTo(next) {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: cannot move extra charge from %s to %s", apperrors.ErrValidation, charge.Status, next)
	}

	c, err := s.caseRepo.FindCaseByID(ctx, charge.CaseID)
	if err != nil {
		return nil, domain.BalanceRefresh{}, err
	}
	if c.Status.IsTerminal() {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: %s", apperrors.ErrCaseClosed, c.CaseID)
	}

	now := s.clock.Now()
	if err := s.chargeRepo.UpdateExtraChargeStatus(ctx, chargeID, charge.Status, next, userID, now); err != nil {
		return nil, domain.BalanceRefresh{}, err
	}
	s.LogInfo(ctx, "Extra charge status changed",
		slog.String("charge_id", chargeID), slog.String("from", string(charge.Status)), slog.String("to", string(next)))

	charge.Status = next
	charge.LastUpdatedAt = now
	charge.LastUpdatedBy = userID

	return charge, s.reconciler.RefreshBalance(ctx, *c), nil
}

// ListExtraCharges lists the extra charges of a case.
func (s *extraChargeService) ListExtraCharges(ctx context.Context, caseID string) ([]domain.ExtraCharge, error) {
	c, err := s.caseRepo.FindCaseByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	list, err := s.chargeRepo.ListExtraChargesByCase(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list extra charges: %w", err)
	}
	return list, nil
}
