package repositories

import (
	"context"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentRepositoryFacade defines the append-only payment store. There is no
// update or delete operation.
type PaymentRepositoryFacade interface {
	// SavePayment inserts a payment. A repeated reference code for the same case
	// returns ErrDuplicate; a completed case returns ErrCaseClosed.
	SavePayment(ctx context.Context, payment domain.Payment) error
	ListPaymentsByCase(ctx context.Context, caseID int64) ([]domain.Payment, error)
	ListPaymentsInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.Payment, error)
}
