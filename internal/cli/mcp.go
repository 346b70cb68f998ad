package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/logging"
	"github.com/imyousuf/graphselect/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		Long: `Start an MCP (Model Context Protocol) server over stdin/stdout.

The server exposes the graph catalog and the selection engine as tools:
list_graphs, list_selection_types and select_subgraph. It is normally
started by an MCP client rather than run directly.`,
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

			// stdout carries the protocol; logs go to stderr or --log.
			logger := newLogger(cfg)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file %s: %w", logFile, err)
				}
				defer f.Close()
				level, _ := logging.ParseLevel(cfg.Log.Level)
				logger = logging.New(f, level)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := mcp.NewServer(cat, Version, limitsOf(cfg), logger)
			logger.Info("mcp server started", "store", cfg.ResolvePath(cfg.Store.Path))
			if err := mcp.Run(ctx, server); err != nil && ctx.Err() == nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log", "", "append tool call logs to this file instead of stderr")

	return cmd
}
