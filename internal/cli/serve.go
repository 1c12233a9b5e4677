package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conflictwatch/casemap/internal/adapter/httpapi"
	"github.com/conflictwatch/casemap/internal/adapter/tiles"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}

		style := tiles.StyleFromConfig(a.cfg)
		if a.cfg.MapboxToken != "" {
			client := tiles.NewClient(a.cfg.MapboxToken, 5*time.Second, a.logger)
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			if err := client.ValidateToken(ctx); err != nil {
				a.logger.Warn("map token validation failed, using public tiles", "error", err)
				style = tiles.StyleFor("")
			}
			cancel()
		} else {
			a.logger.Info("no map token configured, using public tiles")
		}

		handler := httpapi.NewHandler(a.svc, style, a.logger, a.metrics)
		srv := httpapi.NewServer(a.cfg.HTTPAddr, handler, a.logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("http server error", "error", err)
				stop()
			}
		}()

		<-ctx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		a.logger.Info("shutdown complete")
		return nil
	},
}
