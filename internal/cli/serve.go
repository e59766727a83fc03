package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"transaction-reconciler/internal/api"
	"transaction-reconciler/internal/gateway"
	"transaction-reconciler/internal/usecase"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reconciliation of inline CSV payloads over HTTP",
		Long: `Start an HTTP server exposing:
  POST /v1/reconcile  {"source": "<csv>", "system": "<csv>"}
  GET  /healthz

Request payloads are always parsed as inline CSV text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = a.cfg.Server.Port
			}

			repo, err := a.newRepository(nil, gateway.InlineOnly())
			if err != nil {
				return err
			}
			uc := usecase.NewReconciliationUseCase(repo, a.logger)
			srv := api.NewServer(":"+port, a.cfg.Server.MaxBodyBytes, uc, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from SERVER_PORT)")
	return cmd
}
