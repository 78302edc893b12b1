package pg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entityhub/pkg/pg"
	"github.com/dmitrymomot/entityhub/pkg/transaction"
)

type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

// queue registers an after-commit hook on the messaging transaction in ctx.
func queue(t *testing.T, ctx context.Context, sent *[]string, name string) {
	t.Helper()
	tx, ok := transaction.Current(ctx)
	require.True(t, ok)
	require.NoError(t, tx.OnCommit(transaction.ActionFunc(func(context.Context) error {
		*sent = append(*sent, name)
		return nil
	})))
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	t.Run("sends after database commit", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tx: &fakeTx{}}
		var sent []string

		err := pg.WithTx(context.Background(), db, func(ctx context.Context, tx pgx.Tx) error {
			queue(t, ctx, &sent, "order.added")
			assert.Empty(t, sent)
			return nil
		})

		require.NoError(t, err)
		assert.True(t, db.tx.committed)
		assert.Equal(t, []string{"order.added"}, sent)
	})

	t.Run("fn error rolls both back", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tx: &fakeTx{}}
		var sent []string
		boom := errors.New("boom")

		err := pg.WithTx(context.Background(), db, func(ctx context.Context, tx pgx.Tx) error {
			queue(t, ctx, &sent, "order.added")
			return boom
		})

		require.ErrorIs(t, err, boom)
		assert.True(t, db.tx.rolledBack)
		assert.False(t, db.tx.committed)
		assert.Empty(t, sent)
	})

	t.Run("cancelled request still runs rollback actions", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tx: &fakeTx{}}
		ctx, cancel := context.WithCancel(context.Background())
		var undone []string

		err := pg.WithTx(ctx, db, func(ctx context.Context, tx pgx.Tx) error {
			mtx, ok := transaction.Current(ctx)
			require.True(t, ok)
			require.NoError(t, mtx.OnRollback(transaction.ActionFunc(func(context.Context) error {
				undone = append(undone, "order.added")
				return nil
			})))
			cancel()
			return ctx.Err()
		})

		require.ErrorIs(t, err, context.Canceled)
		assert.True(t, db.tx.rolledBack)
		assert.Equal(t, []string{"order.added"}, undone)
	})

	t.Run("database commit failure drops notifications", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
		var sent []string

		err := pg.WithTx(context.Background(), db, func(ctx context.Context, tx pgx.Tx) error {
			queue(t, ctx, &sent, "order.updated")
			return nil
		})

		require.ErrorIs(t, err, pg.ErrCommitTx)
		assert.Empty(t, sent)
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{beginErr: errors.New("pool closed")}
		called := false

		err := pg.WithTx(context.Background(), db, func(context.Context, pgx.Tx) error {
			called = true
			return nil
		})

		require.ErrorIs(t, err, pg.ErrBeginTx)
		assert.False(t, called)
	})

	t.Run("begin failure reports rollback errors", func(t *testing.T) {
		t.Parallel()
		undoErr := errors.New("undo failed")
		db := &fakeDB{beginErr: errors.New("pool closed")}

		ctx, mtx := transaction.Begin(context.Background())
		require.NoError(t, mtx.OnRollback(transaction.ActionFunc(func(context.Context) error {
			return undoErr
		})))

		err := pg.WithTx(ctx, db, func(context.Context, pgx.Tx) error { return nil })

		require.ErrorIs(t, err, pg.ErrBeginTx)
		assert.ErrorIs(t, err, undoErr)
		assert.True(t, mtx.WasRolledBack())
	})

	t.Run("panic rolls back and propagates", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tx: &fakeTx{}}
		var sent []string

		assert.PanicsWithValue(t, "kaboom", func() {
			_ = pg.WithTx(context.Background(), db, func(ctx context.Context, tx pgx.Tx) error {
				queue(t, ctx, &sent, "order.deleted")
				panic("kaboom")
			})
		})
		assert.True(t, db.tx.rolledBack)
		assert.Empty(t, sent)
	})

	t.Run("nested call defers to outer scope", func(t *testing.T) {
		t.Parallel()
		var sent []string

		err := transaction.Run(context.Background(), func(ctx context.Context) error {
			inner := &fakeDB{tx: &fakeTx{}}
			err := pg.WithTx(ctx, inner, func(ctx context.Context, tx pgx.Tx) error {
				queue(t, ctx, &sent, "order.added")
				return nil
			})
			require.NoError(t, err)
			assert.True(t, inner.tx.committed)
			assert.Empty(t, sent)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"order.added"}, sent)
	})
}
