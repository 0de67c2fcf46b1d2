package services

import (
	"context"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/SscSPs/mortuary_billing_app/internal/dto"
)

// CaseReaderSvc defines read operations for cases
type CaseReaderSvc interface {
	// GetCase reads through the case cache.
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	ListCases(ctx context.Context, status *domain.CaseStatus, limit int, offset int) ([]domain.Case, error)
}

// CaseWriterSvc defines write operations for cases
type CaseWriterSvc interface {
	CreateCase(ctx context.Context, req dto.CreateCaseRequest, userID string) (*domain.Case, error)
	UpdateEmbalmingCost(ctx context.Context, caseID string, req dto.UpdateEmbalmingRequest, userID string) (*domain.Case, domain.BalanceRefresh, error)
	UpdateCaseStatus(ctx context.Context, caseID string, req dto.UpdateCaseStatusRequest, userID string) (*domain.Case, error)

	// CompleteCase runs a final reconcile and then closes the case.
	CompleteCase(ctx context.Context, caseID string, userID string) (*domain.Case, *domain.ReconciliationOutcome, error)
}

// CaseSvcFacade combines all case-related service interfaces
type CaseSvcFacade interface {
	CaseReaderSvc
	CaseWriterSvc
}
