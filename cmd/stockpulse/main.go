package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stockpulse/internal/backend"
	"stockpulse/internal/config"
	"stockpulse/internal/dashboard"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr       string
		backendURL string
		timeout    time.Duration
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "stockpulse",
		Short: "Stock sentiment dashboard server",
		Long:  "Serves a single-page dashboard of stock metadata, sentiment-scored news, and ad-hoc text analysis fetched from the sentiment backend service.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg := config.Default()
			cfg.ApplyEnv()
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("backend-url") {
				cfg.BackendURL = backendURL
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}

			logger, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return run(cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&backendURL, "backend-url", config.DefaultBackendURL, "sentiment backend base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", config.DefaultTimeout, "per-call backend timeout")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func run(cfg config.Config, logger *zap.Logger) error {
	client := backend.New(cfg.BackendURL, cfg.Timeout, logger)
	handler := dashboard.NewHandler(client, logger)

	mux := http.NewServeMux()
	handler.Routes(mux)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Addr),
			zap.String("backend", cfg.BackendURL),
			zap.Duration("timeout", cfg.Timeout))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
