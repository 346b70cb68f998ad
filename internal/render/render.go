// Package render draws selection results as an HTML page of force-directed
// graphs.
package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/selection"
)

const (
	measuredColor  = "#5470c6"
	latentColor    = "#d9d9d9"
	highlightColor = "#f4a261"
	edgeColor      = "#6e7079"
)

// Options tune the page.
type Options struct {
	// Title heads the page; the selection configuration is a good choice.
	Title string
	// Height of each chart, a CSS length.
	Height string
}

// HTML writes one chart per result. names labels each chart and must be as
// long as results.
func HTML(w io.Writer, results []selection.Result, names []string, o Options) error {
	if len(names) != len(results) {
		return fmt.Errorf("render: %d names for %d results", len(names), len(results))
	}
	if o.Title == "" {
		o.Title = "graphselect"
	}
	if o.Height == "" {
		o.Height = "600px"
	}
	page := components.NewPage()
	page.SetPageTitle(o.Title)
	for i, r := range results {
		page.AddCharts(chart(names[i], o, r))
	}
	return page.Render(w)
}

func chart(name string, o Options, r selection.Result) *charts.Graph {
	c := charts.NewGraph()
	c.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.Title,
			Height:    o.Height,
			Width:     "100%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("%s: %d nodes, %d edges", o.Title, r.Graph.NumNodes(), r.Graph.NumEdges()),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	c.AddSeries(
		name,
		Nodes(r),
		Links(r.Graph),
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:    "force",
			Draggable: opts.Bool(true),
			Roam:      opts.Bool(true),
			Force:     &opts.GraphForce{Repulsion: 400, EdgeLength: 120},
			EdgeLabel: &opts.EdgeLabel{Show: opts.Bool(true), FontSize: 12},
		}),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "top",
		}),
	)
	return c
}

// Nodes converts the result graph's nodes. Highlighted anchors get the
// highlight colour; latent nodes are drawn hollow.
func Nodes(r selection.Result) []opts.GraphNode {
	hl := make(map[*graph.Node]bool, len(r.Highlighted))
	for _, n := range r.Highlighted {
		hl[n] = true
	}
	out := make([]opts.GraphNode, 0, r.Graph.NumNodes())
	for _, n := range r.Graph.Nodes() {
		gn := opts.GraphNode{
			Name:       n.Name,
			SymbolSize: 30,
			ItemStyle:  &opts.ItemStyle{Color: measuredColor},
		}
		if n.Type == graph.NodeLatent {
			gn.Symbol = "emptyCircle"
			gn.ItemStyle = &opts.ItemStyle{Color: latentColor}
		}
		if hl[n] {
			gn.ItemStyle = &opts.ItemStyle{Color: highlightColor}
		}
		out = append(out, gn)
	}
	return out
}

// Links converts edges, labelling each with its endpoint marks. Directed
// edges are solid and heavier; edges with a circle mark are dotted;
// bidirected edges are dashed.
func Links(g *graph.Graph) []opts.GraphLink {
	out := make([]opts.GraphLink, 0, g.NumEdges())
	for _, e := range g.Edges() {
		style := &opts.LineStyle{Color: edgeColor, Width: 1.5, Type: "solid"}
		switch {
		case e.IsDirected():
			style.Width = 2.5
		case e.IsBidirected():
			style.Type = "dashed"
		case e.Endpoint1 == graph.Circle || e.Endpoint2 == graph.Circle:
			style.Type = "dotted"
		}
		out = append(out, opts.GraphLink{
			Source:    e.Node1.Name,
			Target:    e.Node2.Name,
			LineStyle: style,
			Label:     &opts.EdgeLabel{Show: opts.Bool(true), Formatter: e.Symbol()},
		})
	}
	return out
}
