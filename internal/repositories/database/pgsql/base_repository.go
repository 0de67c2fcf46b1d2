package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/mortuary_billing_app/internal/apperrors"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so list queries can
// run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// lockOpenCase takes a share lock on the case row until tx ends and rejects
// completed cases. Completion holds the row FOR UPDATE, so a write guarded by
// this lock either commits before the final bill is computed or sees the
// case as complete.
func lockOpenCase(ctx context.Context, tx pgx.Tx, caseID int64) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM cases WHERE id = $1 FOR SHARE;`, caseID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(fmt.Sprintf("case row %d not found", caseID))
		}
		return apperrors.NewAppError(500, "failed to lock case", err)
	}
	if domain.CaseStatus(status).IsTerminal() {
		return fmt.Errorf("%w: case row %d", apperrors.ErrCaseClosed, caseID)
	}
	return nil
}

// withOpenCase runs fn in a transaction that holds lockOpenCase on caseID.
func (r *BaseRepository) withOpenCase(ctx context.Context, caseID int64, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockOpenCase(ctx, tx, caseID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
