// Package transaction provides a lightweight, in-memory transaction scope for
// deferring side effects until a unit of work succeeds.
//
// A Transaction is not a database transaction. It is a reference-counted queue
// of actions: work registered with OnCommit runs only when the outermost
// Commit brings the nesting depth back to zero, and work registered with
// OnRollback runs if the scope is rolled back instead. The typical use is
// holding outbound notifications until the data they describe is durable.
//
// # Scope
//
// A Manager owns at most one live Transaction. Calling Begin while one is
// active returns the same instance with its depth incremented, so nested
// services can each begin and commit without knowing whether an outer caller
// already opened a scope. After the transaction completes, the next Begin
// starts a fresh one.
//
// The Manager travels in a context.Context:
//
//	ctx, tx := transaction.Begin(ctx)
//	defer tx.Close(ctx)
//
//	_ = tx.OnCommit(transaction.ActionFunc(func(ctx context.Context) error {
//		return notifyClients(ctx)
//	}))
//
//	if err := saveOrder(ctx); err != nil {
//		return err // Close rolls back, notifyClients never runs
//	}
//	return tx.Commit(ctx)
//
// Run wraps the same pattern and also rolls back on panic:
//
//	err := transaction.Run(ctx, func(ctx context.Context) error {
//		return service.CreateOrder(ctx, order)
//	})
//
// For HTTP services, Middleware attaches a Manager to each request.
//
// # Semantics
//
//   - Commit at depth greater than one only decrements the depth.
//   - The commit that reaches depth zero runs a snapshot of the commit queue in
//     registration order and stops at the first failing action.
//   - Rollback discards queued commit actions and runs rollback actions once.
//     Subsequent Commit and Rollback calls are no-ops.
//   - OnCommit and OnRollback return ErrTransactionComplete after completion.
//   - Close rolls back a transaction that is still active.
//
// Deferred actions run without any internal lock held, so they may freely
// query the transaction or start a new one through the Manager.
package transaction
