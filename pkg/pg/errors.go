package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConnect               = errors.New("pg: failed to connect")
	ErrEmptyConnectionString = errors.New("pg: empty connection string, set PG_CONN_URL")
	ErrParseConfig           = errors.New("pg: failed to parse connection string")
	ErrHealthcheckFailed     = errors.New("pg: healthcheck failed")
	ErrMigrate               = errors.New("pg: failed to apply migrations")
	ErrNilMigrations         = errors.New("pg: migrations filesystem is nil")
	ErrBeginTx               = errors.New("pg: failed to begin transaction")
	ErrCommitTx              = errors.New("pg: failed to commit transaction")
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsNotFoundError reports whether err means a query returned no rows.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsTxClosedError reports whether err comes from using a finished transaction.
func IsTxClosedError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrTxClosed)
}

// IsDuplicateKeyError reports a unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolationError reports a foreign key violation.
func IsForeignKeyViolationError(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return err != nil && errors.As(err, &pgErr) && pgErr.Code == code
}
