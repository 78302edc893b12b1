package transaction_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entityhub/pkg/transaction"
)

func TestManager(t *testing.T) {
	t.Parallel()

	t.Run("no current transaction before begin", func(t *testing.T) {
		t.Parallel()
		m := transaction.NewManager()
		_, ok := m.Current()
		assert.False(t, ok)
		assert.False(t, m.Active())
	})

	t.Run("fresh transaction after completion", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		m := transaction.NewManager()

		first := m.Begin()
		require.NoError(t, first.Commit(ctx))
		assert.False(t, m.Active())

		second := m.Begin()
		assert.NotSame(t, first, second)
		assert.Equal(t, 1, second.Depth())

		current, ok := m.Current()
		require.True(t, ok)
		assert.Same(t, second, current)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("begin attaches a manager when missing", func(t *testing.T) {
		t.Parallel()
		ctx, tx := transaction.Begin(context.Background())

		_, ok := transaction.ManagerFromContext(ctx)
		require.True(t, ok)

		current, ok := transaction.Current(ctx)
		require.True(t, ok)
		assert.Same(t, tx, current)
	})

	t.Run("begin reuses the manager in context", func(t *testing.T) {
		t.Parallel()
		m := transaction.NewManager()
		ctx := transaction.WithManager(context.Background(), m)

		ctx2, tx := transaction.Begin(ctx)
		assert.Equal(t, ctx, ctx2)

		current, ok := m.Current()
		require.True(t, ok)
		assert.Same(t, tx, current)
	})

	t.Run("current without scope", func(t *testing.T) {
		t.Parallel()
		_, ok := transaction.Current(context.Background())
		assert.False(t, ok)
	})

	t.Run("logger extractor", func(t *testing.T) {
		t.Parallel()
		extract := transaction.LoggerExtractor()

		_, ok := extract(context.Background())
		assert.False(t, ok)

		ctx, _ := transaction.Begin(context.Background())
		attr, ok := extract(ctx)
		require.True(t, ok)
		assert.Equal(t, "tx_depth", attr.Key)
		assert.Equal(t, int64(1), attr.Value.Int64())
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		err := transaction.Run(context.Background(), func(ctx context.Context) error {
			tx, ok := transaction.Current(ctx)
			require.True(t, ok)
			return tx.OnCommit(rec.action("sent"))
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"sent"}, rec.calls)
	})

	t.Run("nested runs commit once", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		err := transaction.Run(context.Background(), func(ctx context.Context) error {
			err := transaction.Run(ctx, func(ctx context.Context) error {
				tx, _ := transaction.Current(ctx)
				return tx.OnCommit(rec.action("inner"))
			})
			if err != nil {
				return err
			}
			assert.Empty(t, rec.calls)
			tx, _ := transaction.Current(ctx)
			return tx.OnCommit(rec.action("outer"))
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"inner", "outer"}, rec.calls)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		boom := errors.New("boom")
		err := transaction.Run(context.Background(), func(ctx context.Context) error {
			tx, _ := transaction.Current(ctx)
			require.NoError(t, tx.OnCommit(rec.action("commit")))
			require.NoError(t, tx.OnRollback(rec.action("rollback")))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"rollback"}, rec.calls)
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		assert.Panics(t, func() {
			_ = transaction.Run(context.Background(), func(ctx context.Context) error {
				tx, _ := transaction.Current(ctx)
				_ = tx.OnCommit(rec.action("commit"))
				_ = tx.OnRollback(rec.action("rollback"))
				panic("boom")
			})
		})
		assert.Equal(t, []string{"rollback"}, rec.calls)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("attaches a scope per request", func(t *testing.T) {
		t.Parallel()
		var seen []*transaction.Manager
		handler := transaction.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, ok := transaction.ManagerFromContext(r.Context())
			require.True(t, ok)
			seen = append(seen, m)
			w.WriteHeader(http.StatusNoContent)
		}))

		for range 2 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
		require.Len(t, seen, 2)
		assert.NotSame(t, seen[0], seen[1])
	})

	t.Run("rolls back a transaction left open", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		var tx *transaction.Transaction
		handler := transaction.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, tx = transaction.Begin(r.Context())
			_ = tx.OnCommit(rec.action("commit"))
			_ = tx.OnRollback(rec.action("rollback"))
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/orders", nil))
		require.NotNil(t, tx)
		assert.True(t, tx.WasRolledBack())
		assert.Equal(t, []string{"rollback"}, rec.calls)
	})
}
