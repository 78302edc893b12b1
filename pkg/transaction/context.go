package transaction

import (
	"context"
	"errors"
	"log/slog"
)

type contextKey struct{}

// WithManager returns a context carrying m as the transaction scope.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// ManagerFromContext returns the transaction scope stored in ctx.
func ManagerFromContext(ctx context.Context) (*Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	m, ok := ctx.Value(contextKey{}).(*Manager)
	return m, ok && m != nil
}

// Begin begins a transaction in the scope carried by ctx. If ctx has no scope,
// a new Manager is attached and the returned context must be used for the
// rest of the unit of work.
func Begin(ctx context.Context) (context.Context, *Transaction) {
	m, ok := ManagerFromContext(ctx)
	if !ok {
		m = NewManager()
		ctx = WithManager(ctx, m)
	}
	return ctx, m.Begin()
}

// Current returns the active transaction of the scope carried by ctx.
func Current(ctx context.Context) (*Transaction, bool) {
	m, ok := ManagerFromContext(ctx)
	if !ok {
		return nil, false
	}
	return m.Current()
}

// Run executes fn inside a transaction. The transaction commits when fn
// returns nil and rolls back when fn fails or panics. Calls nest: an inner Run
// only decrements the depth, and the outermost one decides the outcome.
func Run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, tx := Begin(ctx)

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// LoggerExtractor returns a logger context extractor that records the depth
// of the active transaction under "tx_depth".
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if tx, ok := Current(ctx); ok {
			return slog.Int("tx_depth", tx.Depth()), true
		}
		return slog.Attr{}, false
	}
}
