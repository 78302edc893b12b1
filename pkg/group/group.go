package group

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator joins group parts in the canonical form.
const Separator = "/"

// Group is an immutable, case-insensitive delivery address built from ordered parts.
// The canonical form is computed once at construction, so Group values are
// comparable and can be used directly as map keys.
type Group struct {
	name string
}

// New creates a group from the given parts. Each part is formatted with fmt,
// parts are joined with Separator and the result is lower-cased.
func New(parts ...any) Group {
	if len(parts) == 0 {
		return Group{}
	}

	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(fmt.Sprint(p))
	}

	return Group{name: fold(b.String())}
}

// Parse builds a group from its canonical string form, e.g. "order/42".
// Leading and trailing separators are ignored.
func Parse(s string) Group {
	s = strings.Trim(s, Separator)
	if s == "" {
		return Group{}
	}
	return Group{name: fold(s)}
}

// Prepend returns a new group with parts placed before the receiver's parts.
func (g Group) Prepend(parts ...any) Group {
	if len(parts) == 0 {
		return g
	}
	return join(New(parts...), g)
}

// Append returns a new group with parts placed after the receiver's parts.
func (g Group) Append(parts ...any) Group {
	if len(parts) == 0 {
		return g
	}
	return join(g, New(parts...))
}

// Parts returns the canonical parts of the group.
func (g Group) Parts() []string {
	if g.name == "" {
		return nil
	}
	return strings.Split(g.name, Separator)
}

// String returns the canonical form.
func (g Group) String() string {
	return g.name
}

// Equal reports whether both groups have the same canonical form.
func (g Group) Equal(other Group) bool {
	return g.name == other.name
}

// IsZero reports whether the group has no parts.
func (g Group) IsZero() bool {
	return g.name == ""
}

// MarshalText implements encoding.TextMarshaler.
func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Group) UnmarshalText(text []byte) error {
	*g = Parse(string(text))
	return nil
}

func join(a, b Group) Group {
	switch {
	case a.name == "":
		return b
	case b.name == "":
		return a
	}
	return Group{name: a.name + Separator + b.name}
}

// fold lower-cases s. A Caser keeps internal state and must not be shared
// between goroutines, so one is created per call.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
