package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	"github.com/SscSPs/mortuary_billing_app/internal/models"
	"github.com/SscSPs/mortuary_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade using pgxpool.
type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// SavePayment inserts a payment while holding a share lock on its case.
// Payments are never updated.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	return r.withOpenCase(ctx, m.CaseID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO payments (payment_id, case_id, amount, method, reference_code, payment_date, created_at, created_by)
			VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8);`,
			m.PaymentID, m.CaseID, m.Amount, m.Method, m.ReferenceCode, m.PaymentDate, m.CreatedAt, m.CreatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.NewDuplicateError("payment reference " + payment.ReferenceCode + " already recorded for this case")
			}
			return apperrors.NewAppError(500, "failed to save payment", err)
		}
		return nil
	})
}

// ListPaymentsByCase lists the payments of a case in payment order.
func (r *PgxPaymentRepository) ListPaymentsByCase(ctx context.Context, caseID int64) ([]domain.Payment, error) {
	list, err := listPayments(ctx, r.Pool, caseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payments", err)
	}
	return list, nil
}

// ListPaymentsInTx is ListPaymentsByCase bound to tx.
func (r *PgxPaymentRepository) ListPaymentsInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.Payment, error) {
	list, err := listPayments(ctx, tx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return list, nil
}

func listPayments(ctx context.Context, q querier, caseID int64) ([]domain.Payment, error) {
	rows, err := q.Query(ctx, `
		SELECT payment_id, case_id, amount::text, method, reference_code, payment_date, created_at, created_by
		FROM payments WHERE case_id = $1 ORDER BY payment_date, payment_id;`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.Payment, 0)
	for rows.Next() {
		var m models.Payment
		if err := rows.Scan(&m.PaymentID, &m.CaseID, &m.Amount, &m.Method, &m.ReferenceCode, &m.PaymentDate, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, err
		}
		list = append(list, mapping.ToDomainPayment(m))
	}
	return list, rows.Err()
}
