// Package ingest implements the Ingest API: the single external entry
// point for seeding a crawl.
package ingest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/gowexplorer/webindex/internal/indexing/linkstore"
	"github.com/gowexplorer/webindex/internal/indexing/queue"
	"github.com/gowexplorer/webindex/internal/indexing/urlproc"
)

// API serves the ingest endpoints: IndexWebSite accepts seed URLs;
// GetIndexingWebSites and GetIndexingPages expose live crawl state.
type API struct {
	proc   urlproc.Processor
	queue  *queue.Queue
	links  *linkstore.Store
	logger *slog.Logger
	reqSeq atomic.Uint64
}

// New builds an API bound to the given processor, queue, and link store.
func New(proc urlproc.Processor, q *queue.Queue, links *linkstore.Store, logger *slog.Logger) *API {
	return &API{proc: proc, queue: q, links: links, logger: logger}
}

// Routes registers the ingest endpoints on mux.
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/index", a.requestLogged(a.handleIndexWebSite))
	mux.HandleFunc("/index/sites", a.requestLogged(a.handleGetIndexingWebSites))
	mux.HandleFunc("/index/pages", a.requestLogged(a.handleGetIndexingPages))
}

// requestLogged wraps h with a per-request span numbered by a monotonic
// counter.
func (a *API) requestLogged(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := a.reqSeq.Add(1)
		logger := a.logger.With("request", n, "path", r.URL.Path)
		logger.Info("handling request")
		h(w, r)
	}
}

type indexWebSiteRequest struct {
	Origin string `json:"origin"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleIndexWebSite implements IndexWebSite: parse origin as a URL,
// rejecting unparsable input with 400 invalid_argument; feed it through the
// URL processor; enqueue if accepted. Returns immediately — indexing is
// asynchronous.
func (a *API) handleIndexWebSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req indexWebSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.invalidArgument(w, "request body is not valid JSON")
		return
	}

	u, err := url.Parse(req.Origin)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		a.invalidArgument(w, "origin is not a valid URL")
		return
	}

	canonical, ok := a.proc.Process(u)
	if ok {
		if _, err := a.queue.Enqueue(canonical.String()); err != nil {
			a.logger.Error("failed to enqueue seed", "url", canonical.String(), "error", err)
		}
	}

	w.WriteHeader(http.StatusAccepted)
}

func (a *API) invalidArgument(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

type getIndexingWebSitesResponse struct {
	Origins []string `json:"origins"`
}

// handleGetIndexingWebSites returns every URL currently pending or
// in-progress in the crawl queue.
func (a *API) handleGetIndexingWebSites(w http.ResponseWriter, r *http.Request) {
	urls, err := a.queue.URLs()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(getIndexingWebSitesResponse{Origins: urls})
}

type getIndexingPagesResponse struct {
	Pages []string `json:"pages"`
}

// handleGetIndexingPages returns every URL recorded in the indexed-links
// store: pages published so far, and pages finalized without publishing.
func (a *API) handleGetIndexingPages(w http.ResponseWriter, r *http.Request) {
	urls, err := a.links.URLs()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(getIndexingPagesResponse{Pages: urls})
}
