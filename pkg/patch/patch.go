package patch

import (
	"encoding/json"
	"strings"
)

// OpKind is the operation of a single patch record.
type OpKind string

const (
	OpAdd     OpKind = "add"
	OpRemove  OpKind = "remove"
	OpReplace OpKind = "replace"
)

// Operation is one JSON Patch (RFC 6902) record.
type Operation struct {
	Op    OpKind `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// MarshalJSON always writes value for add and replace, null included, and
// never for remove.
func (o Operation) MarshalJSON() ([]byte, error) {
	if o.Op == OpRemove {
		return json.Marshal(struct {
			Op   OpKind `json:"op"`
			Path string `json:"path"`
		}{o.Op, o.Path})
	}
	type operation Operation
	return json.Marshal(operation(o))
}

// Change is a field-level change produced by change tracking.
// Path holds the field names from the root of the entity down to the changed value.
type Change struct {
	Kind  OpKind
	Path  []string
	Value any
}

// Changes is an ordered change set.
type Changes []Change

// Empty reports whether the change set has no changes.
func (c Changes) Empty() bool {
	return len(c) == 0
}

// ToPatch converts the change set to JSON Patch operations, preserving order.
// It returns nil for an empty change set.
func (c Changes) ToPatch() []Operation {
	if len(c) == 0 {
		return nil
	}

	ops := make([]Operation, 0, len(c))
	for _, ch := range c {
		op := Operation{
			Op:   ch.Kind,
			Path: Pointer(ch.Path...),
		}
		if ch.Kind != OpRemove {
			op.Value = ch.Value
		}
		ops = append(ops, op)
	}
	return ops
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer builds a JSON Pointer (RFC 6901) from path segments.
// No segments yield the empty pointer, which addresses the whole document.
func Pointer(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(s))
	}
	return b.String()
}
