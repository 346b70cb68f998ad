package metrics

import (
	"github.com/imyousuf/graphselect/internal/closure"
	"github.com/imyousuf/graphselect/internal/degree"
	"github.com/imyousuf/graphselect/internal/graph"
)

// DegreeCalculator reports the largest in, out and total degree and the
// mean number of adjacents per node.
type DegreeCalculator struct{}

func (c *DegreeCalculator) Calculate(g *graph.Graph) (map[MetricType]float64, error) {
	var maxIn, maxOut, maxAll, sum int
	for _, n := range g.Nodes() {
		in, out, all := degree.Of(g, n, degree.In), degree.Of(g, n, degree.Out), degree.Of(g, n, degree.Total)
		maxIn = max(maxIn, in)
		maxOut = max(maxOut, out)
		maxAll = max(maxAll, all)
		sum += all
	}
	mean := 0.0
	if g.NumNodes() > 0 {
		mean = float64(sum) / float64(g.NumNodes())
	}
	return map[MetricType]float64{
		MaxIndegree:  float64(maxIn),
		MaxOutdegree: float64(maxOut),
		MaxDegree:    float64(maxAll),
		MeanDegree:   mean,
	}, nil
}

// AcyclicityCalculator reports 1 when the directed edges form no cycle.
type AcyclicityCalculator struct{}

func (c *AcyclicityCalculator) Calculate(g *graph.Graph) (map[MetricType]float64, error) {
	v := 0.0
	if closure.IsAcyclic(g) {
		v = 1
	}
	return map[MetricType]float64{Acyclic: v}, nil
}
