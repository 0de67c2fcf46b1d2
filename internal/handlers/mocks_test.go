package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock CaseService ---
type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}
func (m *MockCaseService) ListCases(ctx context.Context, status *domain.CaseStatus, limit int, offset int) ([]domain.Case, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}
func (m *MockCaseService) CreateCase(ctx context.Context, req dto.CreateCaseRequest, userID string) (*domain.Case, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}
func (m *MockCaseService) UpdateEmbalmingCost(ctx context.Context, caseID string, req dto.UpdateEmbalmingRequest, userID string) (*domain.Case, domain.BalanceRefresh, error) {
	args := m.Called(ctx, caseID, req, userID)
	if args.Get(0) == nil {
		return nil, domain.BalanceRefresh{}, args.Error(2)
	}
	return args.Get(0).(*domain.Case), args.Get(1).(domain.BalanceRefresh), args.Error(2)
}
func (m *MockCaseService) UpdateCaseStatus(ctx context.Context, caseID string, req dto.UpdateCaseStatusRequest, userID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}
func (m *MockCaseService) CompleteCase(ctx context.Context, caseID string, userID string) (*domain.Case, *domain.ReconciliationOutcome, error) {
	args := m.Called(ctx, caseID, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Case), args.Get(1).(*domain.ReconciliationOutcome), args.Error(2)
}

var _ portssvc.CaseSvcFacade = (*MockCaseService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, caseID string, req dto.RecordPaymentRequest, userID string) (*domain.Payment, domain.BalanceRefresh, error) {
	args := m.Called(ctx, caseID, req, userID)
	if args.Get(0) == nil {
		return nil, domain.BalanceRefresh{}, args.Error(2)
	}
	return args.Get(0).(*domain.Payment), args.Get(1).(domain.BalanceRefresh), args.Error(2)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, caseID string) ([]domain.Payment, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock ExtraChargeService ---
type MockExtraChargeService struct {
	mock.Mock
}

func (m *MockExtraChargeService) CreateExtraCharge(ctx context.Context, caseID string, req dto.CreateExtraChargeRequest, userID string) (*domain.ExtraCharge, domain.BalanceRefresh, error) {
	args := m.Called(ctx, caseID, req, userID)
	if args.Get(0) == nil {
		return nil, domain.BalanceRefresh{}, args.Error(2)
	}
	return args.Get(0).(*domain.ExtraCharge), args.Get(1).(domain.BalanceRefresh), args.Error(2)
}
func (m *MockExtraChargeService) UpdateExtraChargeStatus(ctx context.Context, chargeID string, req dto.UpdateExtraChargeStatusRequest, userID string) (*domain.ExtraCharge, domain.BalanceRefresh, error) {
	args := m.Called(ctx, chargeID, req, userID)
	if args.Get(0) == nil {
		return nil, domain.BalanceRefresh{}, args.Error(2)
	}
	return args.Get(0).(*domain.ExtraCharge), args.Get(1).(domain.BalanceRefresh), args.Error(2)
}
func (m *MockExtraChargeService) ListExtraCharges(ctx context.Context, caseID string) ([]domain.ExtraCharge, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtraCharge), args.Error(1)
}

var _ portssvc.ExtraChargeSvcFacade = (*MockExtraChargeService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ReconcileOne(ctx context.Context, caseID string, now time.Time) (*domain.ReconciliationOutcome, error) {
	args := m.Called(ctx, caseID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationOutcome), args.Error(1)
}
func (m *MockReconciliationService) ReconcileAll(ctx context.Context, now time.Time) (*domain.BatchReport, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReport), args.Error(1)
}
func (m *MockReconciliationService) ReconcileAndComplete(ctx context.Context, caseID string, userID string, now time.Time) (*domain.ReconciliationOutcome, error) {
	args := m.Called(ctx, caseID, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationOutcome), args.Error(1)
}

func (m *MockReconciliationService) RefreshBalance(ctx context.Context, c domain.Case) domain.BalanceRefresh {
	return m.Called(ctx, c).Get(0).(domain.BalanceRefresh)
}

var _ portssvc.ReconciliationSvc = (*MockReconciliationService)(nil)

// --- Mock ChargeHistoryService ---
type MockChargeHistoryService struct {
	mock.Mock
}

func (m *MockChargeHistoryService) AppendChargeHistory(ctx context.Context, entry domain.ChargeHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockChargeHistoryService) ListChargeHistory(ctx context.Context, caseID string, limit int, offset int) ([]domain.ChargeHistoryEntry, error) {
	args := m.Called(ctx, caseID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChargeHistoryEntry), args.Error(1)
}

var _ portssvc.ChargeHistorySvc = (*MockChargeHistoryService)(nil)

// --- Mock ReconcileTrigger ---
type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) Trigger(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

var _ portssvc.ReconcileTrigger = (*MockTrigger)(nil)
