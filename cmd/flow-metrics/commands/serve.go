package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"flow-metrics/internal/api/rest"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the metrics REST API",
	Long:  `Serves POST /api/metrics/* endpoints. Every request carries its own Jira credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           rest.NewRouter(rest.NewHandler(newService(cfg))),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signalContext()
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("HTTP server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to HTTP_ADDR or :5024)")
}
