package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/entityhub/pkg/transaction"
)

// TxBeginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside a database transaction bound to a messaging
// transaction scope. Notifications queued by fn through ctx are only sent once
// the database commit succeeds. When fn fails or panics both transactions roll
// back; when the database commit fails the queued notifications are dropped.
//
// Nested calls join the outer messaging scope, so sends happen after the
// outermost WithTx (or transaction.Run) commits.
func WithTx(ctx context.Context, db TxBeginner, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	ctx, mtx := transaction.Begin(ctx)

	rbCtx := context.WithoutCancel(ctx)

	dbtx, err := db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTx, err, mtx.Rollback(rbCtx))
	}

	defer func() {
		if r := recover(); r != nil {
			// Rollback errors are lost here; the panic is what the caller sees.
			_ = dbtx.Rollback(rbCtx)
			_ = mtx.Rollback(rbCtx)
			panic(r)
		}
	}()

	if err := fn(ctx, dbtx); err != nil {
		rbErr := dbtx.Rollback(rbCtx)
		if errors.Is(rbErr, pgx.ErrTxClosed) {
			rbErr = nil
		}
		return errors.Join(err, rbErr, mtx.Rollback(rbCtx))
	}

	if err := dbtx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitTx, err, mtx.Rollback(rbCtx))
	}

	return mtx.Commit(ctx)
}
