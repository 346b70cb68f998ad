package metrics

import "github.com/imyousuf/graphselect/internal/graph"

// CountCalculator counts nodes, latent nodes and edges of each kind.
type CountCalculator struct{}

var kindMetrics = map[graph.EdgeKind]MetricType{
	graph.KindDirected:          DirectedEdges,
	graph.KindBidirected:        BidirectedEdges,
	graph.KindPartiallyOriented: PartiallyOrientedEdges,
	graph.KindNondirected:       NondirectedEdges,
	graph.KindUndirected:        UndirectedEdges,
}

func (c *CountCalculator) Calculate(g *graph.Graph) (map[MetricType]float64, error) {
	stats := g.Stats()
	m := map[MetricType]float64{
		NodeCount:   float64(stats.NodeCount),
		EdgeCount:   float64(stats.EdgeCount),
		LatentCount: float64(stats.NodesByType[graph.NodeLatent]),
	}
	for kind, metric := range kindMetrics {
		m[metric] = float64(stats.EdgesByKind[kind])
	}
	return m, nil
}
