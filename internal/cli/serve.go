package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imyousuf/graphselect/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the catalog, stateless selections and live sessions over HTTP.

  GET    /v1/types                    selection types
  POST   /v1/select                   run a selection over stored graphs
  GET    /v1/graphs                   list stored graphs
  PUT    /v1/graphs/{name}            store a graph (body in any graph format)
  POST   /v1/sessions                 open a session
  PATCH  /v1/sessions/{id}            change a session's selection
  GET    /v1/sessions/{id}/ws         stream a session's results
  GET    /metrics                     Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			cat, err := openCatalog(cfg)
			if err != nil {
				return err
			}
			defer cat.Close()

			logger := newLogger(cfg)
			srv := server.New(cat,
				server.WithLogger(logger),
				server.WithLimits(limitsOf(cfg)),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}
