package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/weather-history/internal/adapter/http"
	"github.com/couchcryptid/weather-history/internal/observability"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr, exportDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the observations over HTTP",
		Long: `Load the data file and serve it over HTTP until interrupted.

Routes: /healthz, /readyz, /metrics, GET /api/session,
GET /api/records?from=&to=,
GET /api/wettest-month, GET /api/averages?month=, DELETE and PUT
/api/records/{dd-mm-yyyy}, POST /api/export {kind, format, name}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.cfg
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if exportDir != "" {
				cfg.ExportDir = exportDir
			}

			logger := rootOpts.logger(cmd)
			metrics := observability.NewMetrics()
			sess, err := rootOpts.openSession(logger, metrics)
			if err != nil {
				return err
			}

			api := httpadapter.NewAPI(sess, cfg.ExportDir, logger)
			srv := httpadapter.NewServer(cfg.HTTPAddr, api, api, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return WrapExitError(ExitCommandError, "http server", err)
				}
			case <-ctx.Done():
			}
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
			logger.Info("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $HTTP_ADDR)")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "directory for API exports (default $EXPORT_DIR)")

	return cmd
}
