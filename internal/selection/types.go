package selection

import (
	"fmt"
	"strings"
)

// Type names one of the selection rules.
type Type int

const (
	Subgraph Type = iota
	Adjacents
	AdjacentsOfAdjacents
	AdjacentsOfAdjacentsOfAdjacents
	Parents
	Children
	Ancestors
	Descendants
	MarkovBlankets
	Treks
	TrekEdges
	Paths
	PathEdges
	DirectedPaths
	DirectedPathEdges
	YStructures
	PagYStructures
	Indegree
	OutDegree
	Degree

	numTypes
)

var typeNames = [numTypes]string{
	Subgraph:                        "Subgraph",
	Adjacents:                       "Adjacents",
	AdjacentsOfAdjacents:            "Adjacents_of_Adjacents",
	AdjacentsOfAdjacentsOfAdjacents: "Adjacents_of_Adjacents_of_Adjacents",
	Parents:                         "Parents",
	Children:                        "Children",
	Ancestors:                       "Ancestors",
	Descendants:                     "Descendants",
	MarkovBlankets:                  "Markov_Blankets",
	Treks:                           "Treks",
	TrekEdges:                       "Trek_Edges",
	Paths:                           "Paths",
	PathEdges:                       "Path_Edges",
	DirectedPaths:                   "Directed_Paths",
	DirectedPathEdges:               "Directed_Path_Edges",
	YStructures:                     "Y_Structures",
	PagYStructures:                  "Pag_Y_Structures",
	Indegree:                        "Indegree",
	OutDegree:                       "Out_Degree",
	Degree:                          "Degree",
}

var typeDescriptions = [numTypes]string{
	Subgraph:                        "The anchors and the edges among them.",
	Adjacents:                       "The anchors and their adjacents.",
	AdjacentsOfAdjacents:            "The anchors and every node within two adjacency steps.",
	AdjacentsOfAdjacentsOfAdjacents: "The anchors and every node within three adjacency steps.",
	Parents:                         "The anchors and their parents.",
	Children:                        "The anchors and their children.",
	Ancestors:                       "The anchors and every node with a directed path into one of them.",
	Descendants:                     "The anchors and every node reachable from one of them by a directed path.",
	MarkovBlankets:                  "The anchors and their Markov blankets.",
	Treks:                           "An edge between two anchors joined by a path whose length matches n+1.",
	TrekEdges:                       "Every edge on a path between two anchors whose length matches n+1.",
	Paths:                           "An edge between two anchors joined by a path whose length matches n+1.",
	PathEdges:                       "Every edge on a path between two anchors whose length matches n+1.",
	DirectedPaths:                   "A directed edge x --> y for anchors joined by a directed path whose length matches n+1.",
	DirectedPathEdges:               "Every edge on a directed path between anchors whose length matches n+1.",
	YStructures:                     "Anchors with two or more directed parents and a child, with those edges.",
	PagYStructures:                  "Anchors with two or more o-> parents and a child, with those edges.",
	Indegree:                        "Anchors whose number of parents matches n, with their parent edges.",
	OutDegree:                       "Anchors whose number of children matches n, with their child edges.",
	Degree:                          "Anchors whose number of adjacents matches n, with their edges.",
}

// Types lists every selection type in display order.
func Types() []Type {
	out := make([]Type, numTypes)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

func (t Type) valid() bool { return t >= 0 && t < numTypes }

func (t Type) String() string {
	if !t.valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Description is a one-line explanation of the rule.
func (t Type) Description() string {
	if !t.valid() {
		return ""
	}
	return typeDescriptions[t]
}

// UsesN reports whether n and the comparator affect the result.
func (t Type) UsesN() bool {
	return t.IsPathType() || t.IsDegreeType()
}

// IsPathType reports whether the type enumerates paths between anchors.
func (t Type) IsPathType() bool {
	switch t {
	case Treks, TrekEdges, Paths, PathEdges, DirectedPaths, DirectedPathEdges:
		return true
	}
	return false
}

func (t Type) IsDegreeType() bool {
	return t == Indegree || t == OutDegree || t == Degree
}

func normalizeTypeName(s string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

var typesByKey = func() map[string]Type {
	m := make(map[string]Type, numTypes)
	for i, name := range typeNames {
		m[normalizeTypeName(name)] = Type(i)
	}
	return m
}()

// ParseType accepts the canonical names ("Adjacents_of_Adjacents"), and,
// ignoring case, underscores and dashes, the camel-case names of older
// session files ("adjacentsOfAdjacents", "outdegree").
func ParseType(s string) (Type, error) {
	if t, ok := typesByKey[normalizeTypeName(s)]; ok {
		return t, nil
	}
	return Subgraph, fmt.Errorf("%q: %w", s, ErrUnknownType)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%d: %w", int(t), ErrUnknownType)
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
