package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/ehr/hospital/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospital-server",
		Short: "Hospital records API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(doctorsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the hospital records API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, gateway connectivity and the sentinel doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.Env, cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			a, err := openApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.gw.Ping(ctx); err != nil {
				return fmt.Errorf("gateway unreachable: %w", err)
			}
			s, err := a.resolveSentinel(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "gateway %s ok, sentinel doctor %q (id %d)\n", cfg.GatewayDriver(), s.Name, s.ID)
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := newLogger(os.Getenv("ENV"), "info")

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = newLogger(cfg.Env, cfg.LogLevel)

	// Gateway
	ctx := context.Background()
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open gateway")
	}
	defer a.close()
	logger.Info().Str("driver", cfg.GatewayDriver()).Msg("gateway opened")

	// A memory store starts empty, so it gets a fresh sentinel.
	resolve := a.resolveSentinel
	if cfg.GatewayDriver() == "memory" {
		resolve = a.ensureSentinel
	}
	sentinel, err := resolve(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve sentinel doctor")
	}
	logger.Info().Int64("doctor_id", sentinel.ID).Str("name", sentinel.Name).Msg("sentinel doctor resolved")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	a.routes(e)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
