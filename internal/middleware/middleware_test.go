package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/weather-app/weather-pipeline/internal/testutils"
)

func serve(mw gin.HandlerFunc, handler gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestCORS(t *testing.T) {
	t.Run("headers on regular request", func(t *testing.T) {
		m := New(100, time.Second, []string{"https://app.example.com"}, testutils.NewLogger())

		w := serve(m.CORS(), okHandler, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		m := New(100, time.Second, nil, testutils.NewLogger())

		router := gin.New()
		router.Use(m.CORS())
		router.OPTIONS("/", okHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimit(t *testing.T) {
	// Burst of 2 with a slow refill: the third request must be rejected.
	m := New(2, time.Hour, nil, testutils.NewLogger())

	for i := 0; i < 2; i++ {
		w := serve(m.RateLimit(), okHandler, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(m.RateLimit(), okHandler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestRecovery(t *testing.T) {
	m := New(100, time.Second, nil, testutils.NewLogger())

	w := serve(m.Recovery(), func(c *gin.Context) {
		panic("boom")
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}

func TestLoggingPassesThrough(t *testing.T) {
	m := New(100, time.Second, nil, testutils.NewLogger())

	w := serve(m.Logging(), okHandler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
