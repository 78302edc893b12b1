// Package pg wires PostgreSQL into the notification pipeline using pgx/v5 and
// goose/v3.
//
// Connect opens a pool with bounded retries, Migrate applies embedded goose
// migrations and Healthcheck exposes a readiness probe. WithTx is the bridge
// between database and messaging transactions: notifications queued inside fn
// are sent only after the database commit succeeds.
//
//	err := pg.WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
//		if _, err := tx.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id); err != nil {
//			return err
//		}
//		return processor.OnUpdated(ctx, order, changes)
//	})
//
// The error helpers classify common pgx failures such as missing rows or
// unique violations.
package pg
