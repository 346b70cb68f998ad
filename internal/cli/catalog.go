package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/graph/embedded"
	"github.com/imyousuf/graphselect/internal/graph/format"
	"github.com/imyousuf/graphselect/internal/metrics"
)

func newImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <graph-file>",
		Short: "Store a graph file in the catalog",
		Long: `Store a graph file in the local catalog, replacing any graph of the same
name. The name defaults to the file's base name without its extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = format.GraphName(args[0])
			}
			if err := embedded.ValidateName(name); err != nil {
				return err
			}
			g, err := format.LoadFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := openCatalog(cfg)
			if err != nil {
				return err
			}
			defer cat.Close()

			if err := cat.PutGraph(cmd.Context(), name, g); err != nil {
				return fmt.Errorf("store %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%d nodes, %d edges)\n", name, g.NumNodes(), g.NumEdges())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "catalog name (default: file base name)")

	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		outFmt  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a stored graph as a graph file",
		Args:  cobra.ExactArgs(1),
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

			g, err := cat.GetGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outPath != "" && !cmd.Flags().Changed("format") {
				if err := format.SaveFile(outPath, g); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
				return nil
			}

			f, err := format.Parse(outFmt)
			if err != nil {
				return err
			}
			return withOutput(cmd, outPath, func(w io.Writer) error {
				return format.WriteNamed(w, args[0], g, f)
			})
		},
	}

	cmd.Flags().StringVarP(&outFmt, "format", "f", string(format.Text), "graph format: txt, json, yaml, toml or dot")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (format from its extension unless --format is given)")

	return cmd
}

func newGraphsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "graphs",
		Aliases: []string{"ls"},
		Short:   "List stored graphs",
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

			infos, err := cat.ListGraphs(cmd.Context())
			if err != nil {
				return err
			}
			metrics.ObserveCatalog(infos)

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No stored graphs.")
				return nil
			}
			fmt.Fprintf(out, "%-24s %7s %7s  %-8s %s\n", "NAME", "NODES", "EDGES", "SOURCE", "UPDATED")
			for _, info := range infos {
				source := info.Source
				if source == "" {
					source = "local"
				}
				fmt.Fprintf(out, "%-24s %7d %7d  %-8s %s\n",
					info.Name, info.NodeCount, info.EdgeCount, source, info.UpdatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>...",
		Short: "Remove stored graphs",
		Args:  cobra.MinimumNArgs(1),
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

			for _, name := range args {
				if err := cat.DeleteGraph(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
			}
			return nil
		},
	}
}

func newDumpCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write every local graph as JSON lines",
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

			return withOutput(cmd, outPath, func(w io.Writer) error {
				return cat.local.Export(cmd.Context(), w)
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")

	return cmd
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <dump-file>",
		Short: "Replace the local catalog with a dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := openCatalog(cfg)
			if err != nil {
				return err
			}
			defer cat.Close()

			if err := cat.local.Import(cmd.Context(), f); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			infos, err := cat.local.ListGraphs(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d graphs\n", len(infos))
			return nil
		},
	}
}

// withOutput runs write against --out, or stdout when it is empty.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
