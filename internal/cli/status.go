package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/graph"
	"github.com/imyousuf/graphselect/internal/metrics"
)

func newStatusCmd() *cobra.Command {
	var withMetrics bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show catalog and per-graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := openCatalog(cfg)
			if err != nil {
				return err
			}
			defer cat.Close()

			ctx := cmd.Context()
			stats, err := cat.Stats(ctx)
			if err != nil {
				return fmt.Errorf("get stats: %w", err)
			}
			infos, err := cat.ListGraphs(ctx)
			if err != nil {
				return fmt.Errorf("list graphs: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Graph Catalog"))
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Store"), cfg.ResolvePath(cfg.Store.Path))
			if cfg.Store.SharedPath != "" {
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Shared"), cfg.ResolvePath(cfg.Store.SharedPath))
			}
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Graphs"), stats.GraphCount)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Nodes"), stats.NodeCount)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Edges"), stats.EdgeCount)
			writeCounts(out, "Nodes by type", stats.NodesByType)
			writeCounts(out, "Edges by kind", stats.EdgesByKind)

			if !withMetrics {
				return nil
			}
			calc := metrics.NewCompositeCalculator()
			for _, info := range infos {
				g, err := cat.GetGraph(ctx, info.Name)
				if err != nil {
					return err
				}
				values, err := calc.Calculate(g)
				if err != nil {
					return fmt.Errorf("metrics for %s: %w", info.Name, err)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, headerStyle.Render(info.Name))
				for _, m := range metrics.Ordered() {
					if v, ok := values[m]; ok {
						fmt.Fprintf(out, "  %-26s %s\n", m, metrics.FormatValue(v))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withMetrics, "metrics", "m", false, "compute structural metrics for every stored graph")

	return cmd
}

func writeCounts[K graph.NodeType | graph.EdgeKind](w io.Writer, title string, m map[K]int) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s:\n", title)
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(w, "    %-20s %d\n", k, m[k])
	}
}
