package metrics

import (
	"strconv"
	"time"

	"github.com/imyousuf/graphselect/internal/graph"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SelectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphselect_selections_total",
			Help: "Selections computed, labeled by selection type and outcome",
		},
		[]string{"type", "status"},
	)

	SelectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphselect_selection_duration_seconds",
			Help:    "Time spent computing a selection over all base graphs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"type"},
	)

	SelectionResultEdges = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphselect_selection_result_edges",
			Help:    "Number of edges in each derived graph",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"type"},
	)

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "graphselect_sessions_active",
		Help: "Sessions currently held by the server",
	})

	GraphsStored = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graphselect_graphs_stored",
			Help: "Graphs in the catalog, labeled by source layer",
		},
		[]string{"source"},
	)
)

// ObserveSelection records one selection run. edges holds the edge count of
// each derived graph; it is ignored when err is non-nil.
func ObserveSelection(selectionType string, started time.Time, edges []int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SelectionsTotal.WithLabelValues(selectionType, status).Inc()
	SelectionDuration.WithLabelValues(selectionType).Observe(time.Since(started).Seconds())
	if err != nil {
		return
	}
	for _, n := range edges {
		SelectionResultEdges.WithLabelValues(selectionType).Observe(float64(n))
	}
}

// ObserveCatalog sets GraphsStored from a catalog listing. Graphs without a
// source layer count as local.
func ObserveCatalog(infos []graph.GraphInfo) {
	counts := map[string]int{graph.SourceLocal: 0, graph.SourceShared: 0}
	for _, info := range infos {
		src := info.Source
		if src == "" {
			src = graph.SourceLocal
		}
		counts[src]++
	}
	for src, n := range counts {
		GraphsStored.WithLabelValues(src).Set(float64(n))
	}
}

// FormatValue renders a metric for display: integers without a fraction.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
