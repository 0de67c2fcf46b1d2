package pgsql

import (
	"context"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	"github.com/SscSPs/mortuary_billing_app/internal/models"
	"github.com/SscSPs/mortuary_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxChargeHistoryRepository implements portsrepo.ChargeHistoryRepository using pgxpool.
type PgxChargeHistoryRepository struct {
	BaseRepository
}

func newPgxChargeHistoryRepository(pool *pgxpool.Pool) portsrepo.ChargeHistoryRepository {
	return &PgxChargeHistoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ChargeHistoryRepository = (*PgxChargeHistoryRepository)(nil)

// AppendChargeHistory inserts an audit entry.
func (r *PgxChargeHistoryRepository) AppendChargeHistory(ctx context.Context, entry domain.ChargeHistoryEntry) error {
	m := mapping.ToModelChargeHistory(entry)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO charge_history (entry_id, case_id, charge_type, amount, currency, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		m.EntryID, m.CaseID, m.ChargeType, m.Amount, m.Currency, m.Description, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append charge history", err)
	}
	return nil
}

// ListChargeHistory returns the audit trail of a case, newest first.
func (r *PgxChargeHistoryRepository) ListChargeHistory(ctx context.Context, caseID int64, limit int, offset int) ([]domain.ChargeHistoryEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT entry_id, case_id, charge_type, amount, currency, description, created_at
		FROM charge_history WHERE case_id = $1
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $2 OFFSET $3;`, caseID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list charge history", err)
	}
	defer rows.Close()

	entries := make([]domain.ChargeHistoryEntry, 0)
	for rows.Next() {
		var m models.ChargeHistory
		if err := rows.Scan(&m.EntryID, &m.CaseID, &m.ChargeType, &m.Amount, &m.Currency, &m.Description, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan charge history row", err)
		}
		entries = append(entries, mapping.ToDomainChargeHistory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating charge history rows", err)
	}
	return entries, nil
}
