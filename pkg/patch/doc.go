// Package patch turns entity change sets into JSON Patch operations.
//
// A Changes value is the ordered list of field-level changes of one update.
// ToPatch renders it as RFC 6902 operations with RFC 6901 pointer paths:
//
//	changes, err := patch.Diff(before, after)
//	if err != nil {
//		return err
//	}
//	ops := changes.ToPatch() // [{"op":"replace","path":"/status","value":"paid"}]
//
// Diff compares values through their JSON encoding, so json struct tags decide
// field names and unexported fields are ignored.
package patch
