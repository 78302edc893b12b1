package notify

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
	"github.com/dmitrymomot/entityhub/pkg/patch"
)

// Registry collects the notification setup of entity type T: any number of
// group selectors, at most one group transformer, and at most one payload
// transformer per kind. Selectors apply to every kind.
type Registry[T any] struct {
	mu               sync.Mutex
	sender           messaging.Sender
	opts             []Option
	selectors        []GroupSelector[T]
	groupTransformer GroupTransformer
	payloads         map[Kind]PayloadTransformer[T]
}

// NewRegistry creates an empty registry whose dispatchers send through sender.
func NewRegistry[T any](sender messaging.Sender, opts ...Option) *Registry[T] {
	return &Registry[T]{
		sender:   sender,
		opts:     opts,
		payloads: make(map[Kind]PayloadTransformer[T]),
	}
}

// UseSelector appends a selector. It panics on nil.
func (r *Registry[T]) UseSelector(s GroupSelector[T]) *Registry[T] {
	if s == nil {
		panic(ErrNilSelector)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectors = append(r.selectors, s)
	return r
}

// UseEntityGroup adds EntityGroup.
func (r *Registry[T]) UseEntityGroup() *Registry[T] {
	return r.UseSelector(EntityGroup[T]())
}

// UseEntityGroupWithKeys adds EntityKeyGroup.
func (r *Registry[T]) UseEntityGroupWithKeys() *Registry[T] {
	return r.UseSelector(EntityKeyGroup[T]())
}

// UseNamedGroup adds NamedGroup(parts...).
func (r *Registry[T]) UseNamedGroup(parts ...any) *Registry[T] {
	return r.UseSelector(NamedGroup[T](parts...))
}

// UseNamedGroupWithKeys adds NamedKeyGroup(parts...).
func (r *Registry[T]) UseNamedGroupWithKeys(parts ...any) *Registry[T] {
	return r.UseSelector(NamedKeyGroup[T](parts...))
}

// UseEntityGroupWithPrefix adds EntityGroupWithPrefix(prefixers...).
func (r *Registry[T]) UseEntityGroupWithPrefix(prefixers ...Prefixer[T]) *Registry[T] {
	return r.UseSelector(EntityGroupWithPrefix(prefixers...))
}

// UseNamedGroupWithPrefix adds NamedGroupWithPrefix(name, prefixers...).
func (r *Registry[T]) UseNamedGroupWithPrefix(name group.Group, prefixers ...Prefixer[T]) *Registry[T] {
	return r.UseSelector(NamedGroupWithPrefix(name, prefixers...))
}

// SetGroupTransformer registers the group transformer. Only one is allowed.
func (r *Registry[T]) SetGroupTransformer(t GroupTransformer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.groupTransformer != nil {
		return ErrGroupTransformerSet
	}
	r.groupTransformer = t
	return nil
}

// SetPayloadTransformer registers the payload transformer for kind. Only one
// per kind is allowed.
func (r *Registry[T]) SetPayloadTransformer(kind Kind, t PayloadTransformer[T]) error {
	if !kind.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidKind, kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payloads[kind]; ok {
		return fmt.Errorf("%w: %s", ErrPayloadTransformerSet, kind)
	}
	r.payloads[kind] = t
	return nil
}

// Dispatcher builds a dispatcher for kind from the current registrations.
// Later registrations do not affect it.
func (r *Registry[T]) Dispatcher(kind Kind) *Dispatcher[T] {
	r.mu.Lock()
	cfg := DispatcherConfig[T]{
		Selectors:          slices.Clone(r.selectors),
		GroupTransformer:   r.groupTransformer,
		PayloadTransformer: r.payloads[kind],
	}
	r.mu.Unlock()

	return NewDispatcher(kind, r.sender, cfg, r.opts...)
}

// Processor builds a processor that dispatches the kinds enabled in actions.
func (r *Registry[T]) Processor(actions Actions) *Processor[T] {
	p := &Processor[T]{dispatchers: make(map[Kind]*Dispatcher[T], 3)}
	for _, kind := range []Kind{KindAdded, KindUpdated, KindDeleted} {
		if actions.Has(kind.flag()) {
			p.dispatchers[kind] = r.Dispatcher(kind)
		}
	}
	return p
}

// Processor routes entity changes to the dispatcher of their kind.
// Kinds that were not enabled are ignored.
type Processor[T any] struct {
	dispatchers map[Kind]*Dispatcher[T]
}

// Enabled reports whether kind is dispatched.
func (p *Processor[T]) Enabled(kind Kind) bool {
	_, ok := p.dispatchers[kind]
	return ok
}

// Process dispatches ev when its kind is enabled and does nothing otherwise.
func (p *Processor[T]) Process(ctx context.Context, ev Event[T]) error {
	if !ev.Kind.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidKind, ev.Kind)
	}
	d, ok := p.dispatchers[ev.Kind]
	if !ok {
		return nil
	}
	return d.Dispatch(ctx, ev)
}

// OnAdded notifies that entity was created.
func (p *Processor[T]) OnAdded(ctx context.Context, entity T) error {
	return p.Process(ctx, Added(entity))
}

// OnUpdated notifies that entity changed. Without a payload transformer an
// empty change set sends nothing.
func (p *Processor[T]) OnUpdated(ctx context.Context, entity T, changes patch.Changes) error {
	return p.Process(ctx, Updated(entity, changes))
}

// OnDeleted notifies that entity was removed.
func (p *Processor[T]) OnDeleted(ctx context.Context, entity T) error {
	return p.Process(ctx, Deleted(entity))
}
