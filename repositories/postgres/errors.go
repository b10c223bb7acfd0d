package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/psf-initiatives/admin-api/repositories"
)

// uniqueViolation is the SQLSTATE raised for unique constraint failures
const uniqueViolation = "23505"

// classifyError maps driver errors onto repository sentinels.
// op describes the failed operation for the wrapped message.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, repositories.ErrDuplicate)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// expectAffected turns a zero-row update or delete into ErrNotFound
func expectAffected(op string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// count runs a single-value COUNT query
func count(ctx context.Context, db *DB, op, query string, args ...interface{}) (int, error) {
	var n int
	if err := GetExecutor(ctx, db).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, classifyError(op, err)
	}
	return n, nil
}
