package notify

import (
	"context"

	"github.com/dmitrymomot/entityhub/pkg/group"
)

// GroupSelector maps an event to the groups that should be notified.
// Selectors must not modify the event.
type GroupSelector[T any] interface {
	Groups(ctx context.Context, ev Event[T]) ([]group.Group, error)
}

// SelectorFunc adapts a function to GroupSelector.
type SelectorFunc[T any] func(ctx context.Context, ev Event[T]) ([]group.Group, error)

// Groups calls f.
func (f SelectorFunc[T]) Groups(ctx context.Context, ev Event[T]) ([]group.Group, error) {
	return f(ctx, ev)
}

// GroupTransformer rewrites a group into the destination address actually
// sent to, e.g. adding a tenant prefix. The method name is still derived
// from the original group.
type GroupTransformer interface {
	Transform(ctx context.Context, g group.Group) (group.Group, error)
}

// GroupTransformerFunc adapts a function to GroupTransformer.
type GroupTransformerFunc func(ctx context.Context, g group.Group) (group.Group, error)

// Transform calls f.
func (f GroupTransformerFunc) Transform(ctx context.Context, g group.Group) (group.Group, error) {
	return f(ctx, g)
}

// PayloadTransformer computes the wire payload for an event. Returning nil,
// a nil pointer, an empty slice or map, or an empty string suppresses the
// notification.
type PayloadTransformer[T any] interface {
	Transform(ctx context.Context, ev Event[T]) (any, error)
}

// PayloadFunc adapts a function to PayloadTransformer.
type PayloadFunc[T any] func(ctx context.Context, ev Event[T]) (any, error)

func (f PayloadFunc[T]) Transform(ctx context.Context, ev Event[T]) (any, error) {
	return f(ctx, ev)
}
