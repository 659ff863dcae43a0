// Command webindex-indexer runs the Indexing Service: the Ingest API and
// the worker pool that drains its crawl queue.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gowexplorer/webindex/internal/config"
	"github.com/gowexplorer/webindex/internal/indexing/extract"
	"github.com/gowexplorer/webindex/internal/indexing/extract/language"
	"github.com/gowexplorer/webindex/internal/indexing/ingest"
	"github.com/gowexplorer/webindex/internal/indexing/linkstore"
	"github.com/gowexplorer/webindex/internal/indexing/politeness"
	"github.com/gowexplorer/webindex/internal/indexing/queue"
	"github.com/gowexplorer/webindex/internal/indexing/urlfilter"
	"github.com/gowexplorer/webindex/internal/indexing/urlnorm"
	"github.com/gowexplorer/webindex/internal/indexing/urlproc"
	"github.com/gowexplorer/webindex/internal/indexing/worker"
	"github.com/gowexplorer/webindex/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	root := &cobra.Command{
		Use:   "webindex-indexer",
		Short: "Indexing Service: crawl seeds and publish extracted text",
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
		Short: "Run the ingest API and worker pool until signaled to stop",
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

	db, err := sql.Open("sqlite3", cfg.Indexer.DBPath)
	if err != nil {
		return fmt.Errorf("opening sqlite database: %w", err)
	}
	defer db.Close()

	q, err := queue.Open(db)
	if err != nil {
		return fmt.Errorf("opening queue: %w", err)
	}

	links, err := linkstore.Open(db)
	if err != nil {
		return fmt.Errorf("opening link store: %w", err)
	}

	filter := urlfilter.NewAllowedSchemes(cfg.Indexer.AllowedSchemes...)
	proc := urlproc.New(filter, urlnorm.Default())

	langs := make([]language.Language, 0, len(cfg.Indexer.SupportedLangs))
	for _, name := range cfg.Indexer.SupportedLangs {
		if l := language.FromName(name); l != -1 {
			langs = append(langs, l)
		}
	}
	parser := extract.NewParser(langs...)

	limiter := politeness.New(cfg.Indexer.PerHostQPS, cfg.Indexer.PerHostBurst)

	pool := worker.New(q, links, proc, parser, limiter, cfg.Indexer.SearchBackendURL, logger)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx, cfg.Indexer.Workers)

	api := ingest.New(proc, q, links, logger)
	mux := http.NewServeMux()
	api.Routes(mux)
	httpServer := &http.Server{Addr: cfg.Indexer.Addr, Handler: mux}

	go func() {
		logger.Info("ingest api listening", "addr", cfg.Indexer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ingest api stopped unexpectedly", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("ingest api shutdown error", "error", err)
	}

	cancel()
	pool.Close()
	logger.Info("indexer stopped gracefully")
	return nil
}
