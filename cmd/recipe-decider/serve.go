package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/recipe-decider/internal/cli"
	"github.com/aretw0/recipe-decider/internal/config"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reference recipe backend",
	Long: `Serves the recipe list over HTTP: GET/POST /recipes, the /events push
channel, /health, /info and /openapi.yaml. With --metrics, Prometheus
collectors are exposed on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyServeFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		var reg prometheus.Registerer
		if cfg.Server.MetricsEnabled {
			reg = prometheus.DefaultRegisterer
		}
		b, err := cli.OpenBackend(cfg, logger, reg)
		if err != nil {
			return err
		}
		defer b.Close()

		handler := b.Handler
		if cfg.Server.MetricsEnabled {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.Handle("/", b.Handler)
			handler = mux
		}

		logger.Info("serving recipes", "port", cfg.Server.Port, "storage", cfg.Server.Storage, "metrics", cfg.Server.MetricsEnabled)
		return listenAndServe(ctx, logger, cfg.Server.Port, handler)
	},
}

func applyServeFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		c.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("storage") {
		c.Server.Storage, _ = flags.GetString("storage")
	}
	if flags.Changed("recipes-file") {
		c.Server.RecipesFile, _ = flags.GetString("recipes-file")
	}
	if flags.Changed("metrics") {
		c.Server.MetricsEnabled, _ = flags.GetBool("metrics")
	}
}

// listenAndServe runs an HTTP server on port until ctx is done, then shuts it
// down gracefully.
func listenAndServe(ctx context.Context, logger *slog.Logger, port int, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down", "timeout", shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Open /events streams never finish on their own.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		logger.Info("server stopped")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 3000, "Port to listen on")
	serveCmd.Flags().String("storage", config.BackendFile, "Recipe storage: memory, file or redis")
	serveCmd.Flags().String("recipes-file", "recipes.json", "Recipe file for the file storage")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
}
