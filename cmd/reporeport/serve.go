package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QTest-hq/reporeport/internal/api"
)

func (a *app) serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rankings over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.env.Port = port
			}

			projects, err := a.loadProjects(cmd, nil)
			if err != nil {
				return err
			}

			analyzer, err := a.newAnalyzer(projects)
			if err != nil {
				return err
			}

			srv, err := api.NewServer(a.env, projects, analyzer)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			httpServer := &http.Server{
				Addr:         fmt.Sprintf(":%d", a.env.Port),
				Handler:      srv.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 90 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			return serve(cmd.Context(), httpServer)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (default PORT)")

	return cmd
}

// serve runs httpServer until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, httpServer *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting API server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("could not listen on %s: %w", httpServer.Addr, err)
	case <-ctx.Done():
	}

	log.Info().Msg("server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
