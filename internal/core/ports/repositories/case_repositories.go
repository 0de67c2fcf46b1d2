package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CaseReader defines read operations for case data
type CaseReader interface {
	// FindCaseByCaseID retrieves a case by its external case id.
	FindCaseByCaseID(ctx context.Context, caseID string) (*domain.Case, error)

	// FindCaseByID retrieves a case by its internal row id.
	FindCaseByID(ctx context.Context, id int64) (*domain.Case, error)

	// ListCases retrieves a page of cases, optionally filtered by status.
	ListCases(ctx context.Context, status *domain.CaseStatus, limit int, offset int) ([]domain.Case, error)

	// ListOpenCaseIDs returns the external ids of every case that still accrues charges.
	ListOpenCaseIDs(ctx context.Context) ([]string, error)
}

// CaseWriter defines write operations for case data
type CaseWriter interface {
	// SaveCase persists a new case at intake.
	SaveCase(ctx context.Context, c domain.Case) error

	// UpdateCaseStatus moves an open case to a new status. A completed case
	// returns ErrCaseClosed.
	UpdateCaseStatus(ctx context.Context, caseID string, status domain.CaseStatus, userID string, now time.Time) error

	// UpdateEmbalmingCost sets or clears the embalming cost of an open case.
	UpdateEmbalmingCost(ctx context.Context, caseID string, cost decimal.NullDecimal, userID string, now time.Time) error
}

// CaseTransactionSupport defines the row-locked operations the reconciler uses.
type CaseTransactionSupport interface {
	// FindCaseForUpdate selects a case and locks its row until tx ends.
	FindCaseForUpdate(ctx context.Context, tx pgx.Tx, caseID string) (*domain.Case, error)

	// UpdateCaseTotalsInTx writes the reconciled totals of a case.
	UpdateCaseTotalsInTx(ctx context.Context, tx pgx.Tx, id int64, totalCharge, balance decimal.Decimal, lastChargeUpdate time.Time) error

	// CompleteCaseInTx marks a locked case complete.
	CompleteCaseInTx(ctx context.Context, tx pgx.Tx, id int64, userID string, now time.Time) error
}

// CaseRepositoryFacade combines all case-related repository interfaces
type CaseRepositoryFacade interface {
	CaseReader
	CaseWriter
	CaseTransactionSupport
}

// CaseRepositoryWithTx extends CaseRepositoryFacade with transaction capabilities
type CaseRepositoryWithTx interface {
	CaseRepositoryFacade
	TransactionManager
}
