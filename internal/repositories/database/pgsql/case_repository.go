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
	"github.com/shopspring/decimal"
)

// Money columns are cast to text so a NULL or NaN survives the scan.
const caseColumns = `
	id, case_id, deceased_name, rate_category, currency,
	daily_rate_usd::text, fx_rate_kes_per_usd::text, admitted_at, last_charge_update,
	total_charge::text, balance::text, embalming_cost::text, status,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxCaseRepository implements portsrepo.CaseRepositoryWithTx using pgxpool.
type PgxCaseRepository struct {
	BaseRepository
}

func newPgxCaseRepository(pool *pgxpool.Pool) portsrepo.CaseRepositoryWithTx {
	return &PgxCaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CaseRepositoryWithTx = (*PgxCaseRepository)(nil)

func scanCase(row pgx.Row) (*domain.Case, error) {
	var m models.Case
	err := row.Scan(
		&m.ID, &m.CaseID, &m.DeceasedName, &m.RateCategory, &m.Currency,
		&m.DailyRateUSD, &m.FXRateKESPerUSD, &m.AdmittedAt, &m.LastChargeUpdate,
		&m.TotalCharge, &m.Balance, &m.EmbalmingCost, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	c := mapping.ToDomainCase(m)
	return &c, nil
}

// SaveCase inserts a new case.
func (r *PgxCaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	m := mapping.ToModelCase(c)
	query := `
		INSERT INTO cases (
			case_id, deceased_name, rate_category, currency, daily_rate_usd, fx_rate_kes_per_usd,
			admitted_at, last_charge_update, total_charge, balance, embalming_cost, status,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9::numeric, $10::numeric, $11::numeric, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CaseID, m.DeceasedName, m.RateCategory, m.Currency, m.DailyRateUSD, m.FXRateKESPerUSD,
		m.AdmittedAt, m.LastChargeUpdate, m.TotalCharge, m.Balance, m.EmbalmingCost, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("case " + c.CaseID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save case", err)
	}
	return nil
}

// FindCaseByCaseID retrieves a case by its external id.
func (r *PgxCaseRepository) FindCaseByCaseID(ctx context.Context, caseID string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE case_id = $1;`
	c, err := scanCase(r.Pool.QueryRow(ctx, query, caseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("case not found: " + caseID)
		}
		return nil, apperrors.NewAppError(500, "failed to find case", err)
	}
	return c, nil
}

// FindCaseByID retrieves a case by its row id.
func (r *PgxCaseRepository) FindCaseByID(ctx context.Context, id int64) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1;`
	c, err := scanCase(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("case not found: row %d", id))
		}
		return nil, apperrors.NewAppError(500, "failed to find case", err)
	}
	return c, nil
}

// ListCases retrieves a page of cases ordered by admission, newest first.
func (r *PgxCaseRepository) ListCases(ctx context.Context, status *domain.CaseStatus, limit int, offset int) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE ($1::text IS NULL OR status = $1) ORDER BY admitted_at DESC, id DESC LIMIT $2 OFFSET $3;`
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.Pool.Query(ctx, query, statusArg, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list cases", err)
	}
	defer rows.Close()

	cases := make([]domain.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan case row", err)
		}
		cases = append(cases, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating case rows", err)
	}
	return cases, nil
}

// ListOpenCaseIDs returns the ids of every case that is not complete.
func (r *PgxCaseRepository) ListOpenCaseIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT case_id FROM cases WHERE status <> $1 ORDER BY id;`, string(domain.CaseComplete))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list open cases", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan open case ids", err)
	}
	return ids, nil
}

// UpdateCaseStatus moves a case to a new status.
func (r *PgxCaseRepository) UpdateCaseStatus(ctx context.Context, caseID string, status domain.CaseStatus, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE cases SET status = $1, last_updated_at = $2, last_updated_by = $3 WHERE case_id = $4 AND status <> $5;`,
		string(status), now, userID, caseID, string(domain.CaseComplete),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update case status", err)
	}
	if tag.RowsAffected() == 0 {
		return r.closedOrMissing(ctx, caseID)
	}
	return nil
}

// UpdateEmbalmingCost sets or clears the embalming cost of an open case.
func (r *PgxCaseRepository) UpdateEmbalmingCost(ctx context.Context, caseID string, cost decimal.NullDecimal, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE cases SET embalming_cost = $1::numeric, last_updated_at = $2, last_updated_by = $3 WHERE case_id = $4 AND status <> $5;`,
		mapping.ToStoredAmount(cost), now, userID, caseID, string(domain.CaseComplete),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update embalming cost", err)
	}
	if tag.RowsAffected() == 0 {
		return r.closedOrMissing(ctx, caseID)
	}
	return nil
}

// closedOrMissing explains an update of an open case that matched no row.
func (r *PgxCaseRepository) closedOrMissing(ctx context.Context, caseID string) error {
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cases WHERE case_id = $1);`, caseID).Scan(&exists); err != nil {
		return apperrors.NewAppError(500, "failed to check case", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", apperrors.ErrCaseClosed, caseID)
	}
	return apperrors.NewNotFoundError("case not found: " + caseID)
}

// FindCaseForUpdate selects a case and locks the row for the rest of tx.
// Must be called within a transaction.
func (r *PgxCaseRepository) FindCaseForUpdate(ctx context.Context, tx pgx.Tx, caseID string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE case_id = $1 FOR UPDATE;`
	c, err := scanCase(tx.QueryRow(ctx, query, caseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCaseNotFound, caseID)
		}
		return nil, fmt.Errorf("failed to lock case %s: %w", caseID, err)
	}
	return c, nil
}

// UpdateCaseTotalsInTx writes reconciled totals. Must be called within a transaction.
func (r *PgxCaseRepository) UpdateCaseTotalsInTx(ctx context.Context, tx pgx.Tx, id int64, totalCharge, balance decimal.Decimal, lastChargeUpdate time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE cases
		SET total_charge = $1, balance = $2, last_charge_update = $3, last_updated_at = $3, last_updated_by = $4
		WHERE id = $5;`,
		totalCharge, balance, lastChargeUpdate, domain.SystemActor, id,
	)
	if err != nil {
		return fmt.Errorf("%w: updating case totals: %v", apperrors.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: case row %d", apperrors.ErrCaseNotFound, id)
	}
	return nil
}

// CompleteCaseInTx marks a case complete. The caller holds the row lock from
// FindCaseForUpdate.
func (r *PgxCaseRepository) CompleteCaseInTx(ctx context.Context, tx pgx.Tx, id int64, userID string, now time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE cases SET status = $1, last_updated_at = $2, last_updated_by = $3 WHERE id = $4;`,
		string(domain.CaseComplete), now, userID, id,
	)
	if err != nil {
		return fmt.Errorf("%w: completing case: %v", apperrors.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: case row %d", apperrors.ErrCaseNotFound, id)
	}
	return nil
}
