package patch

import (
	"encoding/json"
	"errors"
	"maps"
	"reflect"
	"slices"
)

// Diff compares two values by their JSON form and returns the changes that
// turn before into after. Objects are compared field by field; arrays and
// scalars are replaced as a whole. Changes are ordered by field name.
func Diff(before, after any) (Changes, error) {
	a, err := normalize(before)
	if err != nil {
		return nil, err
	}
	b, err := normalize(after)
	if err != nil {
		return nil, err
	}

	var changes Changes
	walk(nil, a, b, &changes)
	return changes, nil
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrUnsupportedValue, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Join(ErrUnsupportedValue, err)
	}
	return out, nil
}

func walk(path []string, a, b any, changes *Changes) {
	am, aObj := a.(map[string]any)
	bm, bObj := b.(map[string]any)
	if !aObj || !bObj {
		if !reflect.DeepEqual(a, b) {
			*changes = append(*changes, Change{Kind: OpReplace, Path: path, Value: b})
		}
		return
	}

	keys := slices.Collect(maps.Keys(am))
	for k := range bm {
		if _, ok := am[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		av, inA := am[k]
		bv, inB := bm[k]
		sub := append(slices.Clip(path), k)
		switch {
		case !inB:
			*changes = append(*changes, Change{Kind: OpRemove, Path: sub})
		case !inA:
			*changes = append(*changes, Change{Kind: OpAdd, Path: sub, Value: bv})
		default:
			walk(sub, av, bv, changes)
		}
	}
}
