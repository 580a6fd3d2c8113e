package sql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// foreignKeyViolation recognizes FK violations from both the pgx and lib/pq drivers.
func foreignKeyViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pqForeignKeyViolationErrCode {
		return pgErr.Detail, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolationErrCode {
		return pqErr.Detail, true
	}
	return "", false
}
