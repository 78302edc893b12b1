package transaction

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/entityhub/pkg/logger"
)

// Middleware attaches a fresh Manager to every request so that handlers and
// the services they call share one transaction scope. A transaction that is
// still active when the handler returns is rolled back and its queued commit
// actions are dropped.
func Middleware(opts ...ManagerOption) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := NewManager(opts...)
			ctx := WithManager(r.Context(), m)

			defer func() {
				tx, ok := m.Current()
				if !ok {
					return
				}
				m.logger.WarnContext(ctx, "transaction left open by handler, rolling back",
					slog.Int("depth", tx.Depth()),
					slog.String("path", r.URL.Path),
				)
				if err := tx.Rollback(ctx); err != nil {
					m.logger.ErrorContext(ctx, "rollback failed", logger.Error(err))
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
