package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/catalog"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/store"
	"bookcatalog/internal/testutil"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := config{
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		MaxBodyBytes:   1 << 20,
	}
	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	t.Cleanup(limiter.Stop)

	svc := catalog.NewService(store.NewMemoryStore(nil))
	return newRouter(cfg, svc, httpx.NewMetrics("test"), limiter)
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_BookLifecycle(t *testing.T) {
	srv := newTestServer(t)
	book := testutil.TestBook()

	rr := testutil.Serve(srv, testutil.NewRequest(http.MethodPost, "/v1/books", book))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body)
	assert.NotEmpty(t, rr.Header.Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rr.Header.Get("X-Content-Type-Options"))
	assert.EqualValues(t, 1, rr.Data()["id"])
	assert.Equal(t, book.Title, rr.Data()["title"])

	meta, _ := rr.Body["meta"].(map[string]any)
	assert.Equal(t, rr.Header.Get("X-Request-Id"), meta["request_id"])

	rr = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/v1/books/search?author=herbert", nil))
	testutil.AssertResponseCode(t, rr.Code, http.StatusOK)
	found, _ := rr.Body["data"].([]any)
	assert.Len(t, found, 1)

	rr = testutil.Serve(srv, testutil.NewRequest(http.MethodPatch, "/v1/books/1", `{"year":null}`))
	testutil.AssertResponseCode(t, rr.Code, http.StatusOK)
	assert.Nil(t, rr.Data()["year"])

	rr = testutil.Serve(srv, testutil.NewRequest(http.MethodDelete, "/v1/books/1", nil))
	testutil.AssertResponseCode(t, rr.Code, http.StatusOK)

	rr = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/v1/books/1", nil))
	testutil.AssertResponseCode(t, rr.Code, http.StatusNotFound)
	assert.Equal(t, "NOT_FOUND", rr.ErrorCode())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/books/1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func TestReadyHandler_StoreDown(t *testing.T) {
	w := httptest.NewRecorder()
	readyHandler(failingPinger{})(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
