package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleSearchProxiesToBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.Equal(t, `{"query":"fox"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer backend.Close()

	g := New(backend.URL, "127.0.0.1:0", discardLogger())
	front := httptest.NewServer(g.http.Handler)
	defer front.Close()

	resp, err := http.Post(front.URL+"/search", "application/json", strings.NewReader(`{"query":"fox"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, `{"results":[]}`, string(body))
}

func TestHandleSearchReturnsBadGatewayWhenBackendUnreachable(t *testing.T) {
	g := New("http://127.0.0.1:1", "127.0.0.1:0", discardLogger())
	front := httptest.NewServer(g.http.Handler)
	defer front.Close()

	resp, err := http.Post(front.URL+"/search", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandleHealthReturnsOK(t *testing.T) {
	g := New("http://example.com", "127.0.0.1:0", discardLogger())
	front := httptest.NewServer(g.http.Handler)
	defer front.Close()

	resp, err := http.Get(front.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSHeadersPresentOnSearch(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	g := New(backend.URL, "127.0.0.1:0", discardLogger())
	front := httptest.NewServer(g.http.Handler)
	defer front.Close()

	req, err := http.NewRequest(http.MethodPost, front.URL+"/search", strings.NewReader(`{}`))
	require.NoError(t, err)
	req.Header.Set("Origin", "https://client.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
