package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// ErrUniqueViolation is returned (wrapped) when a write hits a unique constraint.
var ErrUniqueViolation = errors.New("unique constraint violated")

// UniqueError carries the violated constraint name.
type UniqueError struct {
	Constraint string
	Err        error
}

func (e *UniqueError) Error() string {
	return fmt.Sprintf("unique constraint %s violated: %v", e.Constraint, e.Err)
}

func (e *UniqueError) Unwrap() []error {
	return []error{ErrUniqueViolation, e.Err}
}

// ClassifyError turns a postgres unique violation into a *UniqueError and
// returns every other error untouched.
func ClassifyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &UniqueError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func WithTx(ctx context.Context, db PgxIface, fn func(q Querier) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", ClassifyError(err))
	}
	return nil
}

var _ Querier = (pgx.Tx)(nil)
