package notify

import (
	"reflect"

	"github.com/dmitrymomot/entityhub/pkg/patch"
)

// Entity is implemented by types that expose their primary key parts.
type Entity interface {
	Keys() []any
}

// Named is implemented by types that choose their own notification name.
type Named interface {
	EntityName() string
}

// EntityName returns the name used for T in group names: the result of
// EntityName when T implements Named, otherwise the Go type name with any
// pointer stripped.
func EntityName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n, ok := reflect.New(t).Interface().(Named); ok {
		return n.EntityName()
	}
	return t.Name()
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Event describes one change of one entity.
type Event[T any] struct {
	Kind   Kind
	Entity T
	// Keys overrides the entity's own keys, for deletes where only the key is known.
	Keys    []any
	Changes patch.Changes
}

// Added builds an added event.
func Added[T any](entity T) Event[T] {
	return Event[T]{Kind: KindAdded, Entity: entity}
}

// Updated builds an updated event with the tracked changes.
func Updated[T any](entity T, changes patch.Changes) Event[T] {
	return Event[T]{Kind: KindUpdated, Entity: entity, Changes: changes}
}

// Deleted builds a deleted event.
func Deleted[T any](entity T) Event[T] {
	return Event[T]{Kind: KindDeleted, Entity: entity}
}

// DeletedByKeys builds a delete event when the entity itself is gone.
func DeletedByKeys[T any](keys ...any) Event[T] {
	return Event[T]{Kind: KindDeleted, Keys: keys}
}

// EntityKeys returns the explicit keys if set, otherwise the entity's keys.
func (e Event[T]) EntityKeys() []any {
	if len(e.Keys) > 0 {
		return e.Keys
	}
	if isNilPointer(e.Entity) {
		return nil
	}
	if ent, ok := any(e.Entity).(Entity); ok {
		return ent.Keys()
	}
	return nil
}

// UpdateData is the default payload of an update notification.
type UpdateData struct {
	Keys  []any             `json:"keys"`
	Patch []patch.Operation `json:"patch"`
}
