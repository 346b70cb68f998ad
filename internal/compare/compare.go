// Package compare holds the comparator that bounds path lengths and
// neighbour counts in selections.
package compare

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownComparator is returned when a comparator name is not recognised.
var ErrUnknownComparator = errors.New("unknown comparator")

// Comparator tests an observed count against a bound. The zero value is
// AtLeast.
type Comparator int

const (
	AtLeast Comparator = iota
	AtMost
	Equals
)

// All lists every comparator in display order.
var All = []Comparator{Equals, AtMost, AtLeast}

func (c Comparator) String() string {
	switch c {
	case AtLeast:
		return "atLeast"
	case AtMost:
		return "atMost"
	case Equals:
		return "equals"
	default:
		return fmt.Sprintf("Comparator(%d)", int(c))
	}
}

// Symbol returns the mathematical form, e.g. ">=".
func (c Comparator) Symbol() string {
	switch c {
	case AtLeast:
		return ">="
	case AtMost:
		return "<="
	default:
		return "=="
	}
}

// Parse accepts the camel-case names ("atLeast"), snake-case names
// ("at_least"), the upper-case names of older config files ("AT_LEAST"),
// and the symbols ">=", "<=", "==" and "=".
func Parse(s string) (Comparator, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	switch key {
	case "atleast", ">=":
		return AtLeast, nil
	case "atmost", "<=":
		return AtMost, nil
	case "equals", "equal", "eq", "==", "=":
		return Equals, nil
	}
	return AtLeast, fmt.Errorf("%q: %w", s, ErrUnknownComparator)
}

// Holds reports whether observed satisfies the comparator against bound.
func (c Comparator) Holds(observed, bound int) bool {
	switch c {
	case AtMost:
		return observed <= bound
	case Equals:
		return observed == bound
	default:
		return observed >= bound
	}
}

func (c Comparator) MarshalText() ([]byte, error) {
	if c < AtLeast || c > Equals {
		return nil, fmt.Errorf("invalid comparator %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Comparator) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
