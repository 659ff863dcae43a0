// Package server exposes the Searching Service's HTTP+JSON API: AddPage
// folds a page into the BM25 index, Search ranks documents against a query.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gowexplorer/webindex/internal/search/store"
	"github.com/gowexplorer/webindex/internal/search/tokenize"
)

type addPageRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type searchResponse struct {
	Results []store.Result `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server is the Searching Service's HTTP handler set.
type Server struct {
	indexer *store.Indexer
	pool    store.DBTX
	logger  *slog.Logger
	http    *http.Server
}

func New(s store.Store, logger *slog.Logger, addr string) *Server {
	srv := &Server{
		indexer: store.NewIndexer(s),
		pool:    s.Pool,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/pages", srv.handleAddPage)
	mux.HandleFunc("/search", srv.handleSearch)
	mux.HandleFunc("/health", srv.handleHealth)

	srv.http = &http.Server{Addr: addr, Handler: mux}
	return srv
}

func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleAddPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "only POST is allowed")
		return
	}

	var req addPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		s.sendError(w, http.StatusBadRequest, "url is required")
		return
	}

	err := s.indexer.AddPage(r.Context(), store.Page{URL: req.URL, Text: req.Text})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case err == store.ErrDuplicateContent:
		s.sendError(w, http.StatusConflict, "duplicate content for this domain")
	default:
		s.logger.Error("add page failed", "url", req.URL, "error", err)
		s.sendError(w, http.StatusInternalServerError, "failed to index page")
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "only POST is allowed")
		return
	}

	start := time.Now()
	defer func() {
		s.logger.Info("search handled", "duration", time.Since(start))
	}()

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		s.sendError(w, http.StatusBadRequest, "query is required")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	terms := tokenize.Words(req.Query)
	if len(terms) == 0 {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{})
		return
	}

	results, err := store.SearchBM25(r.Context(), s.pool, terms, limit)
	if err != nil {
		s.logger.Error("search failed", "query", req.Query, "error", err)
		s.sendError(w, http.StatusInternalServerError, "search failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(searchResponse{Results: results})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
