package validator

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Required fails on an empty or whitespace-only string.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: FieldError{Field: field, Message: "is required"},
	}
}

// MaxLen limits the length in runes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: FieldError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)},
	}
}

// Min fails when value is less than min.
func Min[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool { return value >= min },
		Error: FieldError{Field: field, Message: fmt.Sprintf("must be at least %v", min)},
	}
}

// OneOf fails when value is not in options.
func OneOf[T comparable](field string, value T, options ...T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(options, value) },
		Error: FieldError{Field: field, Message: fmt.Sprintf("must be one of %v", options)},
	}
}

// When applies r only if cond holds. Useful for optional fields of a partial update.
func When(cond bool, r Rule) Rule {
	return Rule{
		Check: func() bool { return !cond || r.Check() },
		Error: r.Error,
	}
}
