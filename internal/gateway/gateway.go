// Package gateway is a thin, CORS-enabled HTTP proxy in front of the
// Searching Service, so browser clients never need direct network access to
// it.
package gateway

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Gateway proxies POST /search to the Searching Service's HTTP API.
type Gateway struct {
	searchBackendURL string
	client           *http.Client
	logger           *slog.Logger
	http             *http.Server
}

func New(searchBackendURL, addr string, logger *slog.Logger) *Gateway {
	g := &Gateway{
		searchBackendURL: searchBackendURL,
		client:           &http.Client{},
		logger:           logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/search", g.handleSearch).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/health", g.handleHealth).Methods(http.MethodGet)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	g.http = &http.Server{Addr: addr, Handler: handler}
	return g
}

func (g *Gateway) ListenAndServe() error {
	return g.http.ListenAndServe()
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.http.Shutdown(ctx)
}

func (g *Gateway) handleSearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, g.searchBackendURL+"/search", bytes.NewReader(body))
	if err != nil {
		http.Error(w, "failed to build upstream request", http.StatusInternalServerError)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("search backend unreachable", "error", err)
		http.Error(w, "search backend unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
