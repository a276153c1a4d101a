package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/recipes/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	counter := APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/recipes/:id", "204")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/api/recipes/1", "/api/recipes/2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestMiddlewareUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())

	counter := APIRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordExport(t *testing.T) {
	counter := ShoppingListExports.WithLabelValues("pdf")
	before := testutil.ToFloat64(counter)

	RecordExport("pdf", 3)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
