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

type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	caseRepo    portsrepo.CaseReader
	reconciler  portssvc.ReconciliationSvc
	clock       clock.Clock
}

// NewPaymentService creates the payment service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, caseRepo portsrepo.CaseReader, reconciler portssvc.ReconciliationSvc, clk clock.Clock) portssvc.PaymentSvcFacade {
	if clk == nil {
		clk = clock.New()
	}
	return &paymentService{paymentRepo: paymentRepo, caseRepo: caseRepo, reconciler: reconciler, clock: clk}
}

// RecordPayment appends a payment and refreshes the balance.
func (s *paymentService) RecordPayment(ctx context.Context, caseID string, req dto.RecordPaymentRequest, userID string) (*domain.Payment, domain.BalanceRefresh, error) {
	if req.Amount == nil || !req.Amount.IsPositive() {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	method := domain.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.Method)
	}
	reference := strings.TrimSpace(req.ReferenceCode)
	if reference == "" {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("%w: referenceCode is required", apperrors.ErrValidation)
	}

	c, err := loadOpenCase(ctx, s.caseRepo, caseID)
	if err != nil {
		return nil, domain.BalanceRefresh{}, err
	}

	now := s.clock.Now()
	paidAt := now
	if req.PaymentDate != nil {
		paidAt = req.PaymentDate.UTC()
	}

	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		CaseID:        c.ID,
		Amount:        decimal.NewNullDecimal(*req.Amount),
		Method:        method,
		ReferenceCode: reference,
		PaymentDate:   paidAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		return nil, domain.BalanceRefresh{}, fmt.Errorf("failed to record payment: %w", err)
	}
	s.LogInfo(ctx, "Payment recorded",
		slog.String("case_id", caseID), slog.String("amount", req.Amount.String()), slog.String("method", string(method)))

	return &payment, s.reconciler.RefreshBalance(ctx, *c), nil
}

// ListPayments lists the payments of a case.
func (s *paymentService) ListPayments(ctx context.Context, caseID string) ([]domain.Payment, error) {
	c, err := s.caseRepo.FindCaseByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	list, err := s.paymentRepo.ListPaymentsByCase(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return list, nil
}
