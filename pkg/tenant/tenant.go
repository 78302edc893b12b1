package tenant

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/notify"
)

// Header is the default request header carrying the tenant identifier.
const Header = "X-Tenant-ID"

// Prefix is the first group part of tenant-scoped groups.
const Prefix = "tenant"

const maxIDLength = 64

type contextKey struct{}

// WithID stores the tenant identifier in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the tenant identifier stored in ctx.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Middleware reads the tenant identifier from header (Header when empty).
// Requests without one pass through untouched; malformed identifiers are
// rejected with 400.
func Middleware(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = Header
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !valid(id) {
				http.Error(w, ErrInvalidID.Error(), http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// GroupTransformer scopes groups to the tenant found in the context:
// "order/42" becomes "tenant/{id}/order/42". Without a tenant the group is
// returned unchanged.
//
// Install it on both sides, the notification registry and the hub HTTP
// handler, so publishers and subscribers agree on the destination.
func GroupTransformer() notify.GroupTransformer {
	return notify.GroupTransformerFunc(func(ctx context.Context, g group.Group) (group.Group, error) {
		id, ok := FromContext(ctx)
		if !ok {
			return g, nil
		}
		return g.Prepend(Prefix, id), nil
	})
}

// LoggerExtractor adds "tenant_id" to records logged with a tenant context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := FromContext(ctx); ok {
			return slog.String("tenant_id", id), true
		}
		return slog.Attr{}, false
	}
}

// valid accepts identifiers that cannot break group paths: 1..64 characters
// of [A-Za-z0-9_-].
func valid(id string) bool {
	if len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch c := id[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return id != ""
}
