package httpserver

import (
	"context"
	"log/slog"
	"net/http"
)

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// HealthHandler serves liveness when no checks are given ("ALIVE") and
// readiness otherwise: "READY" when every probe passes, 503 "NOT_READY" as
// soon as one fails. Probes run with the request context.
func HealthHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, c := range checks {
			if err := c.Probe(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed",
					slog.String("check", c.Name),
					slog.String("error", err.Error()),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
