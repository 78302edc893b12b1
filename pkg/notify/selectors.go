package notify

import (
	"context"

	"github.com/dmitrymomot/entityhub/pkg/group"
)

// Prefixer returns the parts placed in front of a group for an event,
// for example the tenant an entity belongs to.
type Prefixer[T any] func(ev Event[T]) []any

// EntityGroup selects the group named after T: "order".
func EntityGroup[T any]() GroupSelector[T] {
	return FixedGroup[T](group.New(EntityName[T]()))
}

// EntityKeyGroup selects the entity group followed by the entity keys: "order/42".
func EntityKeyGroup[T any]() GroupSelector[T] {
	return FixedKeyGroup[T](group.New(EntityName[T]()))
}

// NamedGroup selects a group built from parts.
func NamedGroup[T any](parts ...any) GroupSelector[T] {
	return FixedGroup[T](group.New(parts...))
}

// NamedKeyGroup selects a group built from parts followed by the entity keys.
func NamedKeyGroup[T any](parts ...any) GroupSelector[T] {
	return FixedKeyGroup[T](group.New(parts...))
}

// EntityGroupWithPrefix selects one group per prefixer: "{prefix}/order".
func EntityGroupWithPrefix[T any](prefixers ...Prefixer[T]) GroupSelector[T] {
	return prefixed(group.New(EntityName[T]()), prefixers)
}

// NamedGroupWithPrefix selects one group per prefixer: "{prefix}/{name}".
func NamedGroupWithPrefix[T any](name group.Group, prefixers ...Prefixer[T]) GroupSelector[T] {
	return prefixed(name, prefixers)
}

// FixedGroup always selects g.
func FixedGroup[T any](g group.Group) GroupSelector[T] {
	return SelectorFunc[T](func(context.Context, Event[T]) ([]group.Group, error) {
		return []group.Group{g}, nil
	})
}

// FixedKeyGroup selects g followed by the entity keys. Events without keys
// select nothing.
func FixedKeyGroup[T any](g group.Group) GroupSelector[T] {
	return SelectorFunc[T](func(_ context.Context, ev Event[T]) ([]group.Group, error) {
		keys := ev.EntityKeys()
		if len(keys) == 0 {
			return nil, nil
		}
		return []group.Group{g.Append(keys...)}, nil
	})
}

func prefixed[T any](base group.Group, prefixers []Prefixer[T]) GroupSelector[T] {
	return SelectorFunc[T](func(_ context.Context, ev Event[T]) ([]group.Group, error) {
		groups := make([]group.Group, 0, len(prefixers))
		for _, prefix := range prefixers {
			if prefix == nil {
				continue
			}
			groups = append(groups, base.Prepend(prefix(ev)...))
		}
		return groups, nil
	})
}
