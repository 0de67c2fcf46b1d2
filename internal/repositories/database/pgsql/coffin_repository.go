package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mortuary_billing_app/internal/core/ports/repositories"
	"github.com/SscSPs/mortuary_billing_app/internal/models"
	"github.com/SscSPs/mortuary_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const coffinColumns = `
	coffin_id, name, unit_price::text, currency, fx_rate_kes_per_usd::text,
	created_at, created_by, last_updated_at, last_updated_by`

const assignmentColumns = `
	assignment_id, case_id, coffin_id, unit_price::text, currency, quantity,
	fx_rate_kes_per_usd::text, status, assigned_at,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxCoffinRepository implements portsrepo.CoffinRepositoryFacade using pgxpool.
type PgxCoffinRepository struct {
	BaseRepository
}

func newPgxCoffinRepository(pool *pgxpool.Pool) portsrepo.CoffinRepositoryFacade {
	return &PgxCoffinRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CoffinRepositoryFacade = (*PgxCoffinRepository)(nil)

func scanCoffin(row pgx.Row) (*domain.Coffin, error) {
	var m models.Coffin
	if err := row.Scan(
		&m.CoffinID, &m.Name, &m.UnitPrice, &m.Currency, &m.FXRateKESPerUSD,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	c := mapping.ToDomainCoffin(m)
	return &c, nil
}

func scanAssignment(row pgx.Row) (*domain.CoffinAssignment, error) {
	var m models.CoffinAssignment
	if err := row.Scan(
		&m.AssignmentID, &m.CaseID, &m.CoffinID, &m.UnitPrice, &m.Currency, &m.Quantity,
		&m.FXRateKESPerUSD, &m.Status, &m.AssignedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	a := mapping.ToDomainCoffinAssignment(m)
	return &a, nil
}

// SaveCoffin inserts a catalog entry.
func (r *PgxCoffinRepository) SaveCoffin(ctx context.Context, coffin domain.Coffin) error {
	m := mapping.ToModelCoffin(coffin)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO coffins (coffin_id, name, unit_price, currency, fx_rate_kes_per_usd, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3::numeric, $4, $5::numeric, $6, $7, $8, $9);`,
		m.CoffinID, m.Name, m.UnitPrice, m.Currency, m.FXRateKESPerUSD,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("coffin " + coffin.CoffinID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save coffin", err)
	}
	return nil
}

// FindCoffinByID retrieves a catalog entry.
func (r *PgxCoffinRepository) FindCoffinByID(ctx context.Context, coffinID string) (*domain.Coffin, error) {
	c, err := scanCoffin(r.Pool.QueryRow(ctx, `SELECT `+coffinColumns+` FROM coffins WHERE coffin_id = $1;`, coffinID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("coffin not found: " + coffinID)
		}
		return nil, apperrors.NewAppError(500, "failed to find coffin", err)
	}
	return c, nil
}

// ListCoffins lists the catalog ordered by name.
func (r *PgxCoffinRepository) ListCoffins(ctx context.Context) ([]domain.Coffin, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+coffinColumns+` FROM coffins ORDER BY name;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list coffins", err)
	}
	defer rows.Close()

	coffins := make([]domain.Coffin, 0)
	for rows.Next() {
		c, err := scanCoffin(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan coffin row", err)
		}
		coffins = append(coffins, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating coffin rows", err)
	}
	return coffins, nil
}

// SaveActiveAssignment supersedes the current active assignment of the case
// and inserts a as the new one in a single transaction that holds a share
// lock on the case.
func (r *PgxCoffinRepository) SaveActiveAssignment(ctx context.Context, a domain.CoffinAssignment) error {
	m := mapping.ToModelCoffinAssignment(a)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockOpenCase(ctx, tx, m.CaseID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE coffin_assignments
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE case_id = $4 AND status = $5;`,
		string(domain.AssignmentSuperseded), m.LastUpdatedAt, m.LastUpdatedBy, m.CaseID, string(domain.AssignmentActive),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to supersede coffin assignment", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO coffin_assignments (
			assignment_id, case_id, coffin_id, unit_price, currency, quantity, fx_rate_kes_per_usd, status, assigned_at,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4::numeric, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13);`,
		m.AssignmentID, m.CaseID, m.CoffinID, m.UnitPrice, m.Currency, m.Quantity, m.FXRateKESPerUSD,
		string(domain.AssignmentActive), m.AssignedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert coffin assignment", err)
	}

	return r.Commit(ctx, tx)
}

// ListAssignmentsByCase lists every assignment of a case, newest first.
func (r *PgxCoffinRepository) ListAssignmentsByCase(ctx context.Context, caseID int64) ([]domain.CoffinAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM coffin_assignments WHERE case_id = $1 ORDER BY assigned_at DESC;`
	list, err := listAssignments(ctx, r.Pool, query, caseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list coffin assignments", err)
	}
	return list, nil
}

// ListActiveAssignmentsInTx lists billable assignments. Must be called within a transaction.
func (r *PgxCoffinRepository) ListActiveAssignmentsInTx(ctx context.Context, tx pgx.Tx, caseID int64) ([]domain.CoffinAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM coffin_assignments WHERE case_id = $1 AND status = '` + string(domain.AssignmentActive) + `';`
	list, err := listAssignments(ctx, tx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active coffin assignments: %w", err)
	}
	return list, nil
}

func listAssignments(ctx context.Context, q querier, query string, caseID int64) ([]domain.CoffinAssignment, error) {
	rows, err := q.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.CoffinAssignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}
