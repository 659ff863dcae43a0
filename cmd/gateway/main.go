// Command webindex-gateway runs the Web Gateway: a CORS-enabled public HTTP
// proxy in front of the Searching Service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gowexplorer/webindex/internal/config"
	"github.com/gowexplorer/webindex/internal/gateway"
	"github.com/gowexplorer/webindex/internal/logging"
)

func main() {
	root := &cobra.Command{
		Use:   "webindex-gateway",
		Short: "Web Gateway: public CORS-enabled proxy in front of the Searching Service",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway until signaled to stop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(env)
		},
	}
	cmd.Flags().StringVar(&env, "env", os.Getenv("APP_ENV"), "configuration environment overlay (config/<env>.yaml)")
	return cmd
}

func runServe(env string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := logging.New(logLevel)

	gw := gateway.New(cfg.Gateway.SearchBackendURL, cfg.Gateway.Addr, logger)
	go func() {
		logger.Info("gateway listening", "addr", cfg.Gateway.Addr)
		if err := gw.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("gateway stopped unexpectedly", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := gw.Shutdown(shutdownCtx); err != nil {
		logger.Error("gateway shutdown error", "error", err)
	}

	logger.Info("gateway stopped gracefully")
	return nil
}
