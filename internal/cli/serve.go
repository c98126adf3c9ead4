// internal/cli/serve.go
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"mcp-max-protein/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer as MCP tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := &server.Config{
				Host:               a.cfg.Host,
				Port:               a.cfg.Port,
				DBPath:             a.cfg.DBPath,
				Version:            version,
				BudgetKcal:         a.cfg.BudgetKcal,
				MinKcal:            a.cfg.Filter.MinKcal,
				MaxKcal:            a.cfg.Filter.MaxKcal,
				MaxCount:           a.cfg.Filter.MaxCount,
				ExhaustiveMaxCount: a.cfg.Exhaustive.MaxCount,
			}

			srv, err := server.NewMaxProteinServer(cfg, slog.Default())
			if err != nil {
				return err
			}

			// Start returns once the command context is cancelled.
			err = srv.Start(cmd.Context())
			slog.Info("shutting down")
			if stopErr := srv.Stop(); stopErr != nil {
				slog.Error("error during shutdown", "error", stopErr)
			}
			return err
		},
	}

	cmd.Flags().String("host", "", "host address")
	cmd.Flags().Int("port", 0, "port for HTTP transport")
	mustBind(a.v, "host", cmd.Flags().Lookup("host"))
	mustBind(a.v, "port", cmd.Flags().Lookup("port"))
	return cmd
}
