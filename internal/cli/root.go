// Package cli implements the command-line interface for graphselect.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/config"
	"github.com/imyousuf/graphselect/internal/logging"
)

var (
	cfgFile   string
	storePath string
	logLevel  string
	verbose   bool
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "graphselect",
		Short: "graphselect - derive subgraphs from causal graphs",
		Long: `graphselect derives graphs from base graphs (DAGs, CPDAGs, PAGs and other
mixed graphs) and a set of anchor variables: neighbourhoods, parents and
children, ancestors and descendants, Markov blankets, treks, paths,
Y-structures and degree filters.

Commands:
  select     Run a selection over graph files or stored graphs
  render     Write the selection as an interactive HTML page
  watch      Recompute the selection when the config or a graph changes
  import     Store a graph file in the catalog
  graphs     List stored graphs
  status     Show catalog and per-graph statistics
  serve      Serve the HTTP API
  mcp        Serve the MCP tools over stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .graphselect.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "graph catalog path (overrides store.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides log.level)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newSelectCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newGraphsCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newRestoreCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig reads the config file and applies the persistent flag
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger logs to stderr so stdout stays free for command output.
func newLogger(cfg *config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.New(os.Stderr, level)
}
