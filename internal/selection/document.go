package selection

import "github.com/imyousuf/graphselect/internal/graph"

// ResultDocument is the serialized form of one Result, tagged with the name
// of the base graph it was derived from.
type ResultDocument struct {
	Graph       string          `json:"graph" yaml:"graph"`
	Result      *graph.Document `json:"result" yaml:"result"`
	Highlighted []string        `json:"highlighted" yaml:"highlighted"`
}

// Document converts r. The result graph carries the base graph's name.
func (r Result) Document(name string) ResultDocument {
	hl := make([]string, len(r.Highlighted))
	for i, n := range r.Highlighted {
		hl[i] = n.Name
	}
	return ResultDocument{
		Graph:       name,
		Result:      graph.ToDocument(name, r.Graph),
		Highlighted: hl,
	}
}

// Documents converts results, pairing each with the name at the same index.
// Missing names are left empty.
func Documents(names []string, results []Result) []ResultDocument {
	out := make([]ResultDocument, len(results))
	for i, r := range results {
		var name string
		if i < len(names) {
			name = names[i]
		}
		out[i] = r.Document(name)
	}
	return out
}
