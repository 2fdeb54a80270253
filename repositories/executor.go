package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so every repository
// method can run inside a caller-owned transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Коды ошибок PostgreSQL, которые мы различаем.
const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqCheckViolation       = "23514"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
)

// ErrConcurrentUpdate is returned when the store aborted a transaction because of
// a lock conflict. The whole transaction may be retried.
var ErrConcurrentUpdate = errors.New("concurrent update conflict")

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func pick(db *sql.DB, exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return db
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

func isConstraintViolation(err error, code, constraint string) bool {
	pqErr, ok := asPQError(err)
	if !ok {
		return false
	}
	return string(pqErr.Code) == code && (constraint == "" || pqErr.Constraint == constraint)
}

// IsRetryable reports whether err is a serialization failure, a deadlock or a lock timeout.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConcurrentUpdate) {
		return true
	}
	pqErr, ok := asPQError(err)
	if !ok {
		return false
	}
	switch string(pqErr.Code) {
	case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable:
		return true
	}
	return false
}

// wrapConflict turns lock conflicts into ErrConcurrentUpdate and wraps everything else.
func wrapConflict(err error, op string) error {
	if IsRetryable(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrConcurrentUpdate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
