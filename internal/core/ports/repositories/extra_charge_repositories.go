package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExtraChargeReader defines read operations for extra charges
type ExtraChargeReader interface {
	FindExtraChargeByID(ctx context.Context, chargeID string) (*domain.ExtraCharge, error)
	ListExtraChargesByCase(ctx context.Context, caseID int64) ([]domain.ExtraCharge, error)
	ListExtraChargesInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.ExtraCharge, error)
}

// ExtraChargeWriter defines write operations for extra charges
type ExtraChargeWriter interface {
	// SaveExtraCharge inserts a charge. A completed case returns ErrCaseClosed.
	SaveExtraCharge(ctx context.Context, charge domain.ExtraCharge) error

	// UpdateExtraChargeStatus moves a charge from one status to another. It
	// returns ErrValidation if the stored status no longer equals from.
	UpdateExtraChargeStatus(ctx context.Context, chargeID string, from, to domain.ExtraChargeStatus, userID string, now time.Time) error
}

// ExtraChargeRepositoryFacade combines all extra-charge repository interfaces
type ExtraChargeRepositoryFacade interface {
	ExtraChargeReader
	ExtraChargeWriter
}
