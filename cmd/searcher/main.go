// Command webindex-searcher runs the Searching Service: the BM25 index
// over published pages, and the background ranker that keeps its
// statistics fresh.
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
	"github.com/gowexplorer/webindex/internal/logging"
	"github.com/gowexplorer/webindex/internal/search/rank"
	"github.com/gowexplorer/webindex/internal/search/server"
	"github.com/gowexplorer/webindex/internal/search/store"
)

func main() {
	root := &cobra.Command{
		Use:   "webindex-searcher",
		Short: "Searching Service: BM25 ranked search over published pages",
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
		Short: "Run the search API and ranker until signaled to stop",
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := store.Open(ctx, cfg.Searcher.PostgresDSN)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	ranker := rank.New(s, logger, cfg.Searcher.RankInterval)
	go ranker.Run(ctx)

	srv := server.New(s, logger, cfg.Searcher.Addr)
	go func() {
		logger.Info("search api listening", "addr", cfg.Searcher.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("search api stopped unexpectedly", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("search api shutdown error", "error", err)
	}

	cancel()
	logger.Info("searcher stopped gracefully")
	return nil
}
