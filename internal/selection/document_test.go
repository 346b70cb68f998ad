package selection

import (
	"slices"
	"testing"

	"github.com/imyousuf/graphselect/internal/graph"
)

func TestResultDocuments(t *testing.T) {
	g := parse(t, "X --> M", "M --> Y", "Z")
	results, err := Select([]*graph.Graph{g}, anchors("X", "M", "Z"), Config{Type: Subgraph})
	if err != nil {
		t.Fatal(err)
	}

	docs := Documents([]string{"chain"}, results)
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	doc := docs[0]
	if doc.Graph != "chain" || doc.Result.Name != "chain" {
		t.Errorf("names = %q/%q, want chain", doc.Graph, doc.Result.Name)
	}
	if !slices.Equal(doc.Highlighted, []string{"X", "M"}) {
		t.Errorf("Highlighted = %v, want [X M]", doc.Highlighted)
	}
	if len(doc.Result.Edges) != 1 || doc.Result.Edges[0].Node1 != "X" || doc.Result.Edges[0].Node2 != "M" {
		t.Errorf("Edges = %+v, want [X --> M]", doc.Result.Edges)
	}
}

func TestDocumentsMissingName(t *testing.T) {
	docs := Documents(nil, []Result{{Graph: graph.New()}})
	if docs[0].Graph != "" || docs[0].Highlighted == nil {
		t.Errorf("doc = %+v, want empty name and non-nil highlights", docs[0])
	}
}
