package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// fakeTx stands in for a pgx.Tx. Repositories are mocked, so none of its
// methods are ever called.
type fakeTx struct {
	pgx.Tx
}

// decEq matches a decimal argument by value rather than representation.
func decEq(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

// --- Mock CaseRepository ---
type MockCaseRepository struct {
	mock.Mock
}

var _ portsrepo.CaseRepositoryWithTx = (*MockCaseRepository)(nil)

func (m *MockCaseRepository) FindCaseByCaseID(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseRepository) FindCaseByID(ctx context.Context, id int64) (*domain.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseRepository) ListCases(ctx context.Context, status *domain.CaseStatus, limit int, offset int) ([]domain.Case, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *MockCaseRepository) ListOpenCaseIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCaseRepository) UpdateCaseStatus(ctx context.Context, caseID string, status domain.CaseStatus, userID string, now time.Time) error {
	return m.Called(ctx, caseID, status, userID, now).Error(0)
}

func (m *MockCaseRepository) UpdateEmbalmingCost(ctx context.Context, caseID string, cost decimal.NullDecimal, userID string, now time.Time) error {
	return m.Called(ctx, caseID, cost, userID, now).Error(0)
}

func (m *MockCaseRepository) FindCaseForUpdate(ctx context.Context, tx pgx.Tx, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, tx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseRepository) UpdateCaseTotalsInTx(ctx context.Context, tx pgx.Tx, id int64, totalCharge, balance decimal.Decimal, lastChargeUpdate time.Time) error {
	return m.Called(ctx, tx, id, totalCharge, balance, lastChargeUpdate).Error(0)
}

func (m *MockCaseRepository) CompleteCaseInTx(ctx context.Context, tx pgx.Tx, id int64, userID string, now time.Time) error {
	return m.Called(ctx, tx, id, userID, now).Error(0)
}

func (m *MockCaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockCaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockCaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

// --- Mock CoffinRepository ---
type MockCoffinRepository struct {
	mock.Mock
}

var _ portsrepo.CoffinRepositoryFacade = (*MockCoffinRepository)(nil)

func (m *MockCoffinRepository) SaveCoffin(ctx context.Context, coffin domain.Coffin) error {
	return m.Called(ctx, coffin).Error(0)
}

func (m *MockCoffinRepository) FindCoffinByID(ctx context.Context, coffinID string) (*domain.Coffin, error) {
	args := m.Called(ctx, coffinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coffin), args.Error(1)
}

func (m *MockCoffinRepository) ListCoffins(ctx context.Context) ([]domain.Coffin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Coffin), args.Error(1)
}

func (m *MockCoffinRepository) SaveActiveAssignment(ctx context.Context, a domain.CoffinAssignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockCoffinRepository) ListAssignmentsByCase(ctx context.Context, caseID int64) ([]domain.CoffinAssignment, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoffinAssignment), args.Error(1)
}

func (m *MockCoffinRepository) ListActiveAssignmentsInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.CoffinAssignment, error) {
	args := m.Called(ctx, tx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoffinAssignment), args.Error(1)
}

// --- Mock ExtraChargeRepository ---
type MockExtraChargeRepository struct {
	mock.Mock
}

var _ portsrepo.ExtraChargeRepositoryFacade = (*MockExtraChargeRepository)(nil)

func (m *MockExtraChargeRepository) FindExtraChargeByID(ctx context.Context, chargeID string) (*domain.ExtraCharge, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtraCharge), args.Error(1)
}

func (m *MockExtraChargeRepository) ListExtraChargesByCase(ctx context.Context, caseID int64) ([]domain.ExtraCharge, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtraCharge), args.Error(1)
}

func (m *MockExtraChargeRepository) ListExtraChargesInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.ExtraCharge, error) {
	args := m.Called(ctx, tx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtraCharge), args.Error(1)
}

func (m *MockExtraChargeRepository) SaveExtraCharge(ctx context.Context, charge domain.ExtraCharge) error {
	return m.Called(ctx, charge).Error(0)
}

func (m *MockExtraChargeRepository) UpdateExtraChargeStatus(ctx context.Context, chargeID string, from, to domain.ExtraChargeStatus, userID string, now time.Time) error {
	return m.Called(ctx, chargeID, from, to, userID, now).Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) ListPaymentsByCase(ctx context.Context, caseID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, tx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// --- Mock ChargeHistoryRepository ---
type MockChargeHistoryRepository struct {
	mock.Mock
}

var _ portsrepo.ChargeHistoryRepository = (*MockChargeHistoryRepository)(nil)

func (m *MockChargeHistoryRepository) AppendChargeHistory(ctx context.Context, entry domain.ChargeHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockChargeHistoryRepository) ListChargeHistory(ctx context.Context, caseID int64, limit int, offset int) ([]domain.ChargeHistoryEntry, error) {
	args := m.Called(ctx, caseID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChargeHistoryEntry), args.Error(1)
}

// --- Mock ChargeHistorySvc ---
type MockChargeHistoryService struct {
	mock.Mock
}

var _ portssvc.ChargeHistorySvc = (*MockChargeHistoryService)(nil)

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

// --- Mock ReconciliationSvc ---
type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationSvc = (*MockReconciliationService)(nil)

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
