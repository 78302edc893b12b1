package patch

import "errors"

// ErrUnsupportedValue is returned by Diff when a value has no JSON form.
var ErrUnsupportedValue = errors.New("patch: value cannot be represented as JSON")
