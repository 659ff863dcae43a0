// Package rank periodically refreshes the BM25 statistics (document
// frequency, inverse document frequency, document norms) the search store
// depends on.
package rank

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/gowexplorer/webindex/internal/search/store"
)

type Ranker struct {
	store    store.Store
	logger   *slog.Logger
	interval time.Duration
}

func New(s store.Store, logger *slog.Logger, interval time.Duration) *Ranker {
	return &Ranker{store: s, logger: logger, interval: interval}
}

// Run blocks, refreshing statistics once immediately and then every
// interval, until ctx is cancelled.
func (r *Ranker) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("ranker stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Ranker) refresh(ctx context.Context) {
	start := time.Now()

	phases := []struct {
		name string
		run  func(context.Context, store.DBTX) error
	}{
		{"document_frequency", store.UpdateDocumentFrequency},
		{"inverse_document_frequency", store.UpdateInverseDocumentFrequency},
		{"document_norms", store.UpdateDocumentNorms},
	}

	for _, phase := range phases {
		bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
		err := backoff.Retry(func() error {
			return phase.run(ctx, r.store.Pool)
		}, bo)
		if err != nil {
			r.logger.Error("ranking phase failed, skipping until next cycle", "phase", phase.name, "error", err)
			return
		}
	}

	r.logger.Info("ranking refresh completed", "duration", time.Since(start))
}
