package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/api"
	"github.com/ymaeda/gh-trending-tracker/internal/clock/system"
	"github.com/ymaeda/gh-trending-tracker/internal/snapshot"
)

// newServeCmd creates the 'serve' subcommand, a read-only HTTP view over the
// cumulative store plus metrics and health endpoints.
func newServeCmd(rt *root) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves the cumulative trending store over HTTP",

		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := snapshot.NewStore(
				rt.cfg.Paths.WorkDir,
				rt.cfg.Paths.DataDir,
				system.New(),
				rt.logger.Named("snapshot"),
			)
			if err != nil {
				return err
			}

			server := api.NewServer(store, rt.logger.Named("api"))
			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", rt.cfg.Server.Port),
				Handler:           server.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				rt.logger.Info("http server started", zap.Int("port", rt.cfg.Server.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("http server: %w", err)
			case <-ctx.Done():
			}

			rt.logger.Info("shutdown initiated")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			rt.logger.Info("shutdown complete")
			return nil
		},
	}
}
