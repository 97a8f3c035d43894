package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// TestHTTPMetrics はHTTPメトリクスがルートパターン単位で記録されることを検証する。
func TestHTTPMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/items/2", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("/items/:id", "GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "GET", "404")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.requests))
}
