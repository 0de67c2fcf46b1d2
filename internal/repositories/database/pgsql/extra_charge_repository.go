package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	"github.com/SscSPs/mortuary_billing_app/internal/models"
	"github.com/SscSPs/mortuary_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const extraChargeColumns = `
	charge_id, case_id, amount::text, status, service_date, description,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxExtraChargeRepository implements portsrepo.ExtraChargeRepositoryFacade using pgxpool.
type PgxExtraChargeRepository struct {
	BaseRepository
}

func newPgxExtraChargeRepository(pool *pgxpool.Pool) portsrepo.ExtraChargeRepositoryFacade {
	return &PgxExtraChargeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExtraChargeRepositoryFacade = (*PgxExtraChargeRepository)(nil)

func scanExtraCharge(row pgx.Row) (*domain.ExtraCharge, error) {
	var m models.ExtraCharge
	if err := row.Scan(
		&m.ChargeID, &m.CaseID, &m.Amount, &m.Status, &m.ServiceDate, &m.Description,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	c := mapping.ToDomainExtraCharge(m)
	return &c, nil
}

// SaveExtraCharge inserts an extra charge while holding a share lock on its case.
func (r *PgxExtraChargeRepository) SaveExtraCharge(ctx context.Context, charge domain.ExtraCharge) error {
	m := mapping.ToModelExtraCharge(charge)
	return r.withOpenCase(ctx, m.CaseID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO extra_charges (charge_id, case_id, amount, status, service_date, description, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10);`,
			m.ChargeID, m.CaseID, m.Amount, m.Status, m.ServiceDate, m.Description,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to save extra charge", err)
		}
		return nil
	})
}

// FindExtraChargeByID retrieves a single extra charge.
func (r *PgxExtraChargeRepository) FindExtraChargeByID(ctx context.Context, chargeID string) (*domain.ExtraCharge, error) {
	c, err := scanExtraCharge(r.Pool.QueryRow(ctx, `SELECT `+extraChargeColumns+` FROM extra_charges WHERE charge_id = $1;`, chargeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("extra charge not found: " + chargeID)
		}
		return nil, apperrors.NewAppError(500, "failed to find extra charge", err)
	}
	return c, nil
}

// ListExtraChargesByCase lists every extra charge of a case, cancelled ones included.
func (r *PgxExtraChargeRepository) ListExtraChargesByCase(ctx context.Context, caseID int64) ([]domain.ExtraCharge, error) {
	list, err := listExtraCharges(ctx, r.Pool, caseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list extra charges", err)
	}
	return list, nil
}

// ListExtraChargesInTx is ListExtraChargesByCase bound to tx.
func (r *PgxExtraChargeRepository) ListExtraChargesInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.ExtraCharge, error) {
	list, err := listExtraCharges(ctx, tx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list extra charges: %w", err)
	}
	return list, nil
}

func listExtraCharges(ctx context.Context, q querier, caseID int64) ([]domain.ExtraCharge, error) {
	rows, err := q.Query(ctx, `SELECT `+extraChargeColumns+` FROM extra_charges WHERE case_id = $1 ORDER BY service_date, charge_id;`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.ExtraCharge, 0)
	for rows.Next() {
		c, err := scanExtraCharge(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// UpdateExtraChargeStatus performs a compare-and-set on the status column
// while holding a share lock on the owning case.
func (r *PgxExtraChargeRepository) UpdateExtraChargeStatus(ctx context.Context, chargeID string, from, to domain.ExtraChargeStatus, userID string, now time.Time) error {
	var caseID int64
	if err := r.Pool.QueryRow(ctx, `SELECT case_id FROM extra_charges WHERE charge_id = $1;`, chargeID).Scan(&caseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("extra charge not found: " + chargeID)
		}
		return apperrors.NewAppError(500, "failed to find extra charge", err)
	}

	return r.withOpenCase(ctx, caseID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE extra_charges SET status = $1, last_updated_at = $2, last_updated_by = $3
			WHERE charge_id = $4 AND status = $5;`,
			string(to), now, userID, chargeID, string(from),
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update extra charge status", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: extra charge %s is no longer %s", apperrors.ErrValidation, chargeID, from)
		}
		return nil
	})
}
