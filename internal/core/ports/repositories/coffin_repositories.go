package repositories

import (
	"context"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CoffinCatalog defines operations on the coffin catalog
type CoffinCatalog interface {
	SaveCoffin(ctx context.Context, coffin domain.Coffin) error
	FindCoffinByID(ctx context.Context, coffinID string) (*domain.Coffin, error)
	ListCoffins(ctx context.Context) ([]domain.Coffin, error)
}

// CoffinAssignmentStore defines operations on case coffin assignments
type CoffinAssignmentStore interface {
	// SaveActiveAssignment inserts a as the active assignment of its case and
	// supersedes any previously active one, atomically. A completed case
	// returns ErrCaseClosed.
	SaveActiveAssignment(ctx context.Context, a domain.CoffinAssignment) error

	// ListAssignmentsByCase lists every assignment of a case, newest first.
	ListAssignmentsByCase(ctx context.Context, caseID int64) ([]domain.CoffinAssignment, error)

	// ListActiveAssignmentsInTx lists the assignments that contribute to billing.
	ListActiveAssignmentsInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.CoffinAssignment, error)
}

// CoffinRepositoryFacade combines all coffin-related repository interfaces
type CoffinRepositoryFacade interface {
	CoffinCatalog
	CoffinAssignmentStore
}
