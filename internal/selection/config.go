package selection

import (
	"errors"
	"fmt"

	"github.com/imyousuf/graphselect/internal/compare"
)

var (
	ErrUnknownType = errors.New("unrecognized selection type")
	ErrNegativeN   = errors.New("n must be non-negative")
)

// Config is the rule a selection applies. The zero value selects the
// subgraph on the anchors.
type Config struct {
	Type       Type               `json:"type"`
	N          int                `json:"n"`
	Comparator compare.Comparator `json:"comparator"`
}

// ParseConfig builds a Config from the textual names used in config files
// and requests. An empty comparator means atLeast.
func ParseConfig(typeName string, n int, comparator string) (Config, error) {
	t, err := ParseType(typeName)
	if err != nil {
		return Config{}, err
	}
	cmp := compare.AtLeast
	if comparator != "" {
		cmp, err = compare.Parse(comparator)
		if err != nil {
			return Config{}, err
		}
	}
	cfg := Config{Type: t, N: n, Comparator: cmp}
	return cfg, cfg.Validate()
}

// Validate rejects unknown types, unknown comparators and negative n.
func (c Config) Validate() error {
	if !c.Type.valid() {
		return fmt.Errorf("type %d: %w", int(c.Type), ErrUnknownType)
	}
	if c.N < 0 {
		return fmt.Errorf("n = %d: %w", c.N, ErrNegativeN)
	}
	if c.Comparator < compare.AtLeast || c.Comparator > compare.Equals {
		return fmt.Errorf("comparator %d: %w", int(c.Comparator), compare.ErrUnknownComparator)
	}
	return nil
}

// PathBound is the path length, in edges, that path types compare against.
// It is also the longest path they enumerate, whatever the comparator, so
// atLeast matches only paths of exactly PathBound edges.
func (c Config) PathBound() int {
	return c.N + 1
}

func (c Config) String() string {
	switch {
	case c.Type.IsPathType():
		return fmt.Sprintf("%s (length %s %d)", c.Type, c.Comparator.Symbol(), c.PathBound())
	case c.Type.IsDegreeType():
		return fmt.Sprintf("%s (%s %d)", c.Type, c.Comparator.Symbol(), c.N)
	default:
		return c.Type.String()
	}
}
