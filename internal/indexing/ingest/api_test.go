package ingest

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gowexplorer/webindex/internal/indexing/linkstore"
	"github.com/gowexplorer/webindex/internal/indexing/queue"
	"github.com/gowexplorer/webindex/internal/indexing/urlfilter"
	"github.com/gowexplorer/webindex/internal/indexing/urlnorm"
	"github.com/gowexplorer/webindex/internal/indexing/urlproc"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	q, err := queue.Open(db)
	require.NoError(t, err)
	links, err := linkstore.Open(db)
	require.NoError(t, err)

	proc := urlproc.New(urlfilter.NewAllowedSchemes(), urlnorm.Default())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(proc, q, links, logger)
}

func TestHandleIndexWebSiteEnqueuesValidOrigin(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(indexWebSiteRequest{Origin: "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/index", bytes.NewReader(body))
	w := httptest.NewRecorder()

	api.handleIndexWebSite(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	urls, err := api.queue.URLs()
	require.NoError(t, err)
	require.Equal(t, []string{"https://example.com"}, urls)
}

func TestHandleIndexWebSiteRejectsInvalidJSON(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/index", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	api.handleIndexWebSite(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleIndexWebSiteRejectsUnparsableOrigin(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(indexWebSiteRequest{Origin: "not-a-url"})
	req := httptest.NewRequest(http.MethodPost, "/index", bytes.NewReader(body))
	w := httptest.NewRecorder()

	api.handleIndexWebSite(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Error)
}

func TestHandleIndexWebSiteRejectsDisallowedScheme(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(indexWebSiteRequest{Origin: "mailto:a@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/index", bytes.NewReader(body))
	w := httptest.NewRecorder()

	api.handleIndexWebSite(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	urls, err := api.queue.URLs()
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestHandleIndexWebSiteRejectsWrongMethod(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	w := httptest.NewRecorder()

	api.handleIndexWebSite(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleGetIndexingWebSitesListsQueuedURLs(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.queue.Enqueue("https://example.com/a")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/index/sites", nil)
	w := httptest.NewRecorder()

	api.handleGetIndexingWebSites(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp getIndexingWebSitesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, []string{"https://example.com/a"}, resp.Origins)
}

func TestHandleGetIndexingPagesListsPublishedURLs(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.links.Put("https://example.com/a", time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/index/pages", nil)
	w := httptest.NewRecorder()

	api.handleGetIndexingPages(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp getIndexingPagesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, []string{"https://example.com/a"}, resp.Pages)
}
