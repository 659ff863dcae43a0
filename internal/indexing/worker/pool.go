// Package worker drives the indexer's concurrent fetch -> parse -> extract
// -> enqueue -> publish cycle.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gowexplorer/webindex/internal/indexing/extract"
	"github.com/gowexplorer/webindex/internal/indexing/linkstore"
	"github.com/gowexplorer/webindex/internal/indexing/politeness"
	"github.com/gowexplorer/webindex/internal/indexing/queue"
	"github.com/gowexplorer/webindex/internal/indexing/searchclient"
	"github.com/gowexplorer/webindex/internal/indexing/urlproc"
	"github.com/gowexplorer/webindex/internal/logging"
)

const (
	fetchTimeout = 60 * time.Second
	maxRedirects = 20
	userAgent    = "webindex/1.0 (+https://github.com/gowexplorer/webindex)"
)

// Pool runs N concurrent workers over the indexing pipeline. Workers hold
// only borrowed references to the queue and link store, and cloned copies
// of the URL processor and HTML parser.
type Pool struct {
	queue            *queue.Queue
	links            *linkstore.Store
	proc             urlproc.Processor
	parser           extract.Parser
	limiter          *politeness.Limiter
	searchBackendURL string
	logger           *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a worker pool. searchBackendURL is the Searching Service's
// HTTP base URL (e.g. "http://localhost:8083").
func New(
	q *queue.Queue,
	links *linkstore.Store,
	proc urlproc.Processor,
	parser extract.Parser,
	limiter *politeness.Limiter,
	searchBackendURL string,
	logger *slog.Logger,
) *Pool {
	return &Pool{
		queue:            q,
		links:            links,
		proc:             proc,
		parser:           parser,
		limiter:          limiter,
		searchBackendURL: searchBackendURL,
		logger:           logger,
	}
}

// Start spawns workerCount cooperative workers. Each worker's loop is
// wrapped in a cancellation race against ctx: once ctx is done, the next
// suspension point in any worker resolves as cancelled and that worker
// exits after logging, without committing partial progress on its current
// item.
func (p *Pool) Start(ctx context.Context, workerCount int) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
}

// Close trips the cancellation signal and waits for every worker to exit.
func (p *Pool) Close() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Pool) runWorker(ctx context.Context, index int) {
	defer p.wg.Done()
	logger := logging.ForWorker(p.logger, index)

	httpClient := &http.Client{
		Timeout: fetchTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	backend, err := searchclient.Connect(ctx, p.searchBackendURL, logger)
	if err != nil {
		logger.Info("indexing worker stopped before connecting to search backend")
		return
	}

	for {
		item, err := p.queue.Peek(ctx)
		if err != nil {
			logger.Info("indexing worker stopped")
			return
		}

		logger.Info("processing", "url", item.URL)
		if p.processItem(ctx, logger, httpClient, backend, item) {
			continue
		}
		logger.Info("indexing worker stopped mid-item")
		return
	}
}

// processItem runs a single fetch->parse->extract->enqueue->publish cycle.
// It returns false when ctx was cancelled partway through, signaling the
// caller to exit the worker loop instead of looping for the next item.
func (p *Pool) processItem(ctx context.Context, logger *slog.Logger, httpClient *http.Client, backend *searchclient.Client, item queue.Item) bool {
	pageURL, err := url.Parse(item.URL)
	if err != nil {
		logger.Warn("item has unparsable url, dropping", "url", item.URL, "error", err)
		p.finalizeWithoutPublish(logger, item)
		return true
	}

	if err := p.limiter.Wait(ctx, pageURL.Host); err != nil {
		return false
	}

	body, err := fetchURL(ctx, httpClient, item.URL)
	if err != nil {
		// Known convergence hazard: we intentionally do NOT mark_processed
		// here, so a permanently-failing URL stays IN_PROGRESS until the
		// next restart's reset_in_progress retries it.
		logger.Warn("fetch failed, leaving item in progress for next restart", "url", item.URL, "error", err)
		return true
	}
	defer body.Close()

	doc, err := p.parser.Parse(body)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedLanguage) {
			logger.Info("skipping document in unsupported language", "url", item.URL)
		} else {
			logger.Warn("html parse failed, skipping document", "url", item.URL, "error", err)
		}
		p.finalizeWithoutPublish(logger, item)
		return true
	}

	base := pageURL
	if href, ok := extract.BaseHref(doc); ok {
		if resolved, err := pageURL.Parse(href); err == nil {
			base = resolved
		}
	}

	links := extract.Links(doc)
	enqueued := 0
	for _, href := range links {
		link, ok := p.proc.Parse(base, href)
		if !ok {
			continue
		}
		linkStr := link.String()
		if _, seen, err := p.links.GetLastIndexed(linkStr); err == nil && seen {
			continue
		}
		if _, err := p.queue.Enqueue(linkStr); err != nil {
			logger.Warn("failed to enqueue link", "url", linkStr, "error", err)
		} else {
			enqueued++
		}
	}
	logger.Info("discovered links", "total", len(links), "enqueued", enqueued, "url", item.URL)

	text, ok := extract.ExtractText(doc)
	if ok {
		if err := backend.AddPage(ctx, item.URL, text); err != nil {
			return false
		}
	}

	if err := p.queue.MarkProcessed(item.ID); err != nil {
		logger.Error("failed to mark item processed", "url", item.URL, "error", err)
		return true
	}
	if err := p.links.Put(item.URL, time.Now()); err != nil {
		logger.Error("failed to record indexed link", "url", item.URL, "error", err)
	}

	return true
}

// finalizeWithoutPublish records an item as done without ever having
// published text for it — the policy for unparsable item URLs, HTML parse
// failures, and documents rejected by the language gate alike. Items whose
// extracted text is empty take the same two steps at the end of processItem.
func (p *Pool) finalizeWithoutPublish(logger *slog.Logger, item queue.Item) {
	if err := p.queue.MarkProcessed(item.ID); err != nil {
		logger.Error("failed to mark item processed", "url", item.URL, "error", err)
		return
	}
	if err := p.links.Put(item.URL, time.Now()); err != nil {
		logger.Error("failed to record indexed link", "url", item.URL, "error", err)
	}
}

func fetchURL(ctx context.Context, client *http.Client, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return resp.Body, nil
}
