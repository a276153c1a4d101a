package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/config"
	"foodgram/internal/logger"
	"foodgram/internal/media"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestRouter(t *testing.T, pingErr error) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	cfg := &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{Secret: "test-secret", ExpiresIn: "1h"},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Media:       config.MediaConfig{Root: root, URL: "/media/"},
		Pagination:  config.PaginationConfig{PageSize: 6, MaxLimit: 100},
		Export:      config.ExportConfig{DefaultFormat: "pdf"},
	}
	router := SetupRouter(Dependencies{
		Config: cfg,
		DB:     fakePinger{err: pingErr},
		Media:  media.NewStorage(cfg.Media),
		Logger: logger.Nop(),
	})
	return router, root
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	router, _ = newTestRouter(t, errors.New("down"))
	w = serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := serve(router, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/users/subscriptions"},
		{http.MethodPost, "/api/recipes"},
		{http.MethodPatch, "/api/recipes/1"},
		{http.MethodPost, "/api/recipes/1/shopping_cart"},
		{http.MethodGet, "/api/recipes/download_shopping_cart"},
		{http.MethodPost, "/api/auth/token/logout"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := serve(router, httptest.NewRequest(route.method, route.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMetricsAndMedia(t *testing.T) {
	router, root := newTestRouter(t, nil)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "recipes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "recipes", "x.png"), []byte("png"), 0o644))
	w = serve(router, httptest.NewRequest(http.MethodGet, "/media/recipes/x.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(router, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
