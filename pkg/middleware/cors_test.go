package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	newRouter := func(origins []string, called *bool) *gin.Engine {
		router := gin.New()
		router.Use(CORS(origins))
		router.GET("/test", func(c *gin.Context) {
			*called = true
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}

	t.Run("許可されたオリジンからのリクエストにCORSヘッダーが設定されること", func(t *testing.T) {
		t.Parallel()

		var called bool
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		w := serve(newRouter([]string{"http://localhost:3000", "https://example.com"}, &called), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
		assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Authorization, Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("許可されていないオリジンにはCORSヘッダーが設定されないこと", func(t *testing.T) {
		t.Parallel()

		var called bool
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := serve(newRouter([]string{"https://example.com"}, &called), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("ワイルドカードですべてのオリジンが許可されること", func(t *testing.T) {
		t.Parallel()

		var called bool
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://any.example.com")
		w := serve(newRouter([]string{"*"}, &called), req)

		assert.Equal(t, "https://any.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Originヘッダーが無い場合はワイルドカードでも設定されないこと", func(t *testing.T) {
		t.Parallel()

		var called bool
		w := serve(newRouter([]string{"*"}, &called), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("OPTIONSリクエストで204が返りハンドラーが実行されないこと", func(t *testing.T) {
		t.Parallel()

		var called bool
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		w := serve(newRouter([]string{"https://example.com"}, &called), req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.False(t, called)
	})
}
