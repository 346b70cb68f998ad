// Package metrics provides graph statistic calculators and the Prometheus
// instruments for selection runs.
package metrics

import "github.com/imyousuf/graphselect/internal/graph"

// MetricType identifies a specific graph statistic.
type MetricType string

const (
	NodeCount              MetricType = "node_count"
	EdgeCount              MetricType = "edge_count"
	LatentCount            MetricType = "latent_count"
	DirectedEdges          MetricType = "directed_edges"
	BidirectedEdges        MetricType = "bidirected_edges"
	PartiallyOrientedEdges MetricType = "partially_oriented_edges"
	NondirectedEdges       MetricType = "nondirected_edges"
	UndirectedEdges        MetricType = "undirected_edges"
	MaxIndegree            MetricType = "max_indegree"
	MaxOutdegree           MetricType = "max_outdegree"
	MaxDegree              MetricType = "max_degree"
	MeanDegree             MetricType = "mean_degree"
	Acyclic                MetricType = "acyclic"
)

// Calculator computes metrics for a graph.
type Calculator interface {
	Calculate(g *graph.Graph) (map[MetricType]float64, error)
}

// CompositeCalculator runs multiple calculators and merges their results.
type CompositeCalculator struct {
	calculators []Calculator
}

// NewCompositeCalculator creates a CompositeCalculator with all built-in calculators.
func NewCompositeCalculator() *CompositeCalculator {
	return &CompositeCalculator{
		calculators: []Calculator{
			&CountCalculator{},
			&DegreeCalculator{},
			&AcyclicityCalculator{},
		},
	}
}

// Calculate runs all calculators and merges results into a single map.
func (c *CompositeCalculator) Calculate(g *graph.Graph) (map[MetricType]float64, error) {
	result := make(map[MetricType]float64)
	for _, calc := range c.calculators {
		m, err := calc.Calculate(g)
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			result[k] = v
		}
	}
	return result, nil
}

// Ordered lists the metric types in display order.
func Ordered() []MetricType {
	return []MetricType{
		NodeCount, EdgeCount, LatentCount,
		DirectedEdges, BidirectedEdges, PartiallyOrientedEdges, NondirectedEdges, UndirectedEdges,
		MaxIndegree, MaxOutdegree, MaxDegree, MeanDegree, Acyclic,
	}
}
