package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/cache"
	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portssvc "github.com/SscSPs/mortuary_billing_app/internal/core/ports/services"
	"github.com/SscSPs/mortuary_billing_app/internal/core/services"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CaseServiceTestSuite struct {
	suite.Suite
	caseRepo   *MockCaseRepository
	reconciler *MockReconciliationService
	caseCache  *cache.CaseCache
	clock      *clock.FakeClock
	service    portssvc.CaseSvcFacade
}

func (suite *CaseServiceTestSuite) SetupTest() {
	suite.caseRepo = new(MockCaseRepository)
	suite.reconciler = new(MockReconciliationService)
	suite.caseCache = cache.NewCaseCache(16, time.Minute)
	suite.clock = clock.NewFakeClock(t0.Add(72 * time.Hour))
	suite.service = services.NewCaseService(suite.caseRepo, suite.reconciler, suite.caseCache, suite.clock)
}

func TestCaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CaseServiceTestSuite))
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (suite *CaseServiceTestSuite) TestCreateCase_Success() {
	ctx := context.Background()
	admitted := t0
	req := dto.CreateCaseRequest{
		CaseID:       " MC-100 ",
		DeceasedName: "Mary Wanjiku",
		RateCategory: "Premium",
		Currency:     "kes",
		AdmittedAt:   &admitted,
	}
	suite.caseRepo.On("SaveCase", ctx, mock.MatchedBy(func(c domain.Case) bool {
		return c.CaseID == "MC-100" &&
			c.RateCategory == domain.RatePremium &&
			c.Currency == domain.KES &&
			c.Status == domain.CaseAdmitted &&
			c.TotalCharge.IsZero() && c.Balance.IsZero() &&
			c.LastChargeUpdate != nil && c.LastChargeUpdate.Equal(t0) &&
			c.CreatedBy == "user-1"
	})).Return(nil).Once()
	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-100").Return(&domain.Case{ID: 10, CaseID: "MC-100"}, nil).Once()

	c, err := suite.service.CreateCase(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(int64(10), c.ID)
	suite.caseRepo.AssertExpectations(suite.T())
}

func (suite *CaseServiceTestSuite) TestCreateCase_ValidationErrors() {
	future := suite.clock.Now().Add(time.Hour)
	tests := []struct {
		name string
		req  dto.CreateCaseRequest
	}{
		{"unsupported currency", dto.CreateCaseRequest{CaseID: "MC-1", RateCategory: "standard", Currency: "EUR"}},
		{"unknown category", dto.CreateCaseRequest{CaseID: "MC-1", RateCategory: "gold", Currency: "KES"}},
		{"blank case id", dto.CreateCaseRequest{CaseID: "  ", RateCategory: "standard", Currency: "KES"}},
		{"zero usd rate", dto.CreateCaseRequest{CaseID: "MC-1", RateCategory: "standard", Currency: "USD", DailyRateUSD: decPtr("0")}},
		{"negative fx", dto.CreateCaseRequest{CaseID: "MC-1", RateCategory: "standard", Currency: "USD", FXRateKESPerUSD: decPtr("-1")}},
		{"negative embalming", dto.CreateCaseRequest{CaseID: "MC-1", RateCategory: "standard", Currency: "KES", EmbalmingCost: decPtr("-5")}},
		{"future admission", dto.CreateCaseRequest{CaseID: "MC-1", RateCategory: "standard", Currency: "KES", AdmittedAt: &future}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateCase(context.Background(), tt.req, "user-1")
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.caseRepo.AssertNotCalled(suite.T(), "SaveCase", mock.Anything, mock.Anything)
}

func (suite *CaseServiceTestSuite) TestCreateCase_Duplicate() {
	ctx := context.Background()
	suite.caseRepo.On("SaveCase", ctx, mock.Anything).Return(apperrors.NewDuplicateError("case already exists")).Once()

	_, err := suite.service.CreateCase(ctx, dto.CreateCaseRequest{CaseID: "MC-1", RateCategory: "standard", Currency: "KES"}, "user-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CaseServiceTestSuite) TestGetCase_ReadsThroughCache() {
	ctx := context.Background()
	suite.caseRepo.On("FindCaseByCaseID", mock.Anything, "MC-1").Return(openCase(1, "MC-1"), nil).Once()

	first, err := suite.service.GetCase(ctx, "MC-1")
	suite.Require().NoError(err)
	second, err := suite.service.GetCase(ctx, "MC-1")
	suite.Require().NoError(err)

	suite.Equal(first.CaseID, second.CaseID)
	suite.caseRepo.AssertNumberOfCalls(suite.T(), "FindCaseByCaseID", 1)
}

func (suite *CaseServiceTestSuite) TestListCases_DefaultsLimit() {
	ctx := context.Background()
	suite.caseRepo.On("ListCases", ctx, (*domain.CaseStatus)(nil), 20, 0).Return([]domain.Case{*openCase(1, "MC-1")}, nil).Once()

	cases, err := suite.service.ListCases(ctx, nil, 0, -3)

	suite.Require().NoError(err)
	suite.Len(cases, 1)
}

func (suite *CaseServiceTestSuite) TestUpdateEmbalmingCost_RefreshesBalance() {
	ctx := context.Background()
	c := openCase(1, "MC-1")
	updated := openCase(1, "MC-1")
	updated.EmbalmingCost = decimal.NewNullDecimal(decimal.NewFromInt(5000))
	outcome := &domain.ReconciliationOutcome{CaseID: "MC-1", Balance: decimal.NewFromInt(14000)}

	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(c, nil).Once()
	suite.caseRepo.On("UpdateEmbalmingCost", ctx, "MC-1", decimal.NewNullDecimal(decimal.RequireFromString("5000")), "user-1", suite.clock.Now()).Return(nil).Once()
	suite.reconciler.On("RefreshBalance", ctx, *c).Return(domain.BalanceRefresh{Outcome: outcome, LastKnown: *c}).Once()
	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(updated, nil).Once()

	got, refresh, err := suite.service.UpdateEmbalmingCost(ctx, "MC-1", dto.UpdateEmbalmingRequest{EmbalmingCost: decPtr("5000")}, "user-1")

	suite.Require().NoError(err)
	suite.False(refresh.Stale())
	suite.True(refresh.Outcome.Balance.Equal(decimal.NewFromInt(14000)))
	suite.True(got.EmbalmingCost.Valid)
	suite.reconciler.AssertExpectations(suite.T())
}

func (suite *CaseServiceTestSuite) TestUpdateEmbalmingCost_CompletedCase() {
	ctx := context.Background()
	c := openCase(1, "MC-1")
	c.Status = domain.CaseComplete
	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(c, nil).Once()

	_, _, err := suite.service.UpdateEmbalmingCost(ctx, "MC-1", dto.UpdateEmbalmingRequest{EmbalmingCost: decPtr("100")}, "user-1")

	suite.ErrorIs(err, apperrors.ErrCaseClosed)
	suite.caseRepo.AssertNotCalled(suite.T(), "UpdateEmbalmingCost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CaseServiceTestSuite) TestUpdateCaseStatus() {
	ctx := context.Background()

	suite.Run("complete is rejected", func() {
		_, err := suite.service.UpdateCaseStatus(ctx, "MC-1", dto.UpdateCaseStatusRequest{Status: "complete"}, "user-1")
		suite.ErrorIs(err, apperrors.ErrValidation)
	})

	suite.Run("moves open case", func() {
		released := openCase(1, "MC-1")
		released.Status = domain.CaseReleased
		suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(openCase(1, "MC-1"), nil).Once()
		suite.caseRepo.On("UpdateCaseStatus", ctx, "MC-1", domain.CaseReleased, "user-1", suite.clock.Now()).Return(nil).Once()
		suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(released, nil).Once()

		got, err := suite.service.UpdateCaseStatus(ctx, "MC-1", dto.UpdateCaseStatusRequest{Status: "released"}, "user-1")

		suite.Require().NoError(err)
		suite.Equal(domain.CaseReleased, got.Status)
	})
}

func (suite *CaseServiceTestSuite) TestCompleteCase_Success() {
	ctx := context.Background()
	now := suite.clock.Now()
	outcome := &domain.ReconciliationOutcome{CaseID: "MC-1", TotalCharge: decimal.NewFromInt(9000), Balance: decimal.NewFromInt(9000)}
	closed := openCase(1, "MC-1")
	closed.Status = domain.CaseComplete

	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(openCase(1, "MC-1"), nil).Once()
	suite.reconciler.On("ReconcileAndComplete", ctx, "MC-1", "user-1", now).Return(outcome, nil).Once()
	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(closed, nil).Once()

	c, out, err := suite.service.CompleteCase(ctx, "MC-1", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.CaseComplete, c.Status)
	suite.True(out.TotalCharge.Equal(decimal.NewFromInt(9000)))
	// The status change happens inside the reconcile transaction.
	suite.caseRepo.AssertNotCalled(suite.T(), "UpdateCaseStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.caseRepo.AssertExpectations(suite.T())
	suite.reconciler.AssertExpectations(suite.T())
}

func (suite *CaseServiceTestSuite) TestCompleteCase_FinalReconcileFails() {
	ctx := context.Background()
	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(openCase(1, "MC-1"), nil).Once()
	suite.reconciler.On("ReconcileAndComplete", ctx, "MC-1", "user-1", suite.clock.Now()).
		Return(nil, errors.Join(apperrors.ErrPersistence, errors.New("timeout"))).Once()

	_, _, err := suite.service.CompleteCase(ctx, "MC-1", "user-1")

	suite.ErrorIs(err, apperrors.ErrPersistence)
}

func (suite *CaseServiceTestSuite) TestCompleteCase_ClosedConcurrently() {
	ctx := context.Background()
	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(openCase(1, "MC-1"), nil).Once()
	suite.reconciler.On("ReconcileAndComplete", ctx, "MC-1", "user-1", suite.clock.Now()).
		Return(nil, fmt.Errorf("%w: MC-1", apperrors.ErrCaseClosed)).Once()

	_, _, err := suite.service.CompleteCase(ctx, "MC-1", "user-1")

	suite.ErrorIs(err, apperrors.ErrCaseClosed)
	suite.NotErrorIs(err, apperrors.ErrPersistence)
}

func (suite *CaseServiceTestSuite) TestCompleteCase_AlreadyComplete() {
	ctx := context.Background()
	c := openCase(1, "MC-1")
	c.Status = domain.CaseComplete
	suite.caseRepo.On("FindCaseByCaseID", ctx, "MC-1").Return(c, nil).Once()

	_, _, err := suite.service.CompleteCase(ctx, "MC-1", "user-1")

	suite.ErrorIs(err, apperrors.ErrCaseClosed)
	suite.reconciler.AssertNotCalled(suite.T(), "ReconcileAndComplete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
