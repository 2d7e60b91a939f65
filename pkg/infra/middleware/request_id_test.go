package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mwopts "github.com/kart-io/support-assistant/pkg/options/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRequestIDEngine(generator func() string) (*gin.Engine, *string) {
	var seen string
	r := gin.New()
	r.Use(RequestIDWithOptions(*mwopts.NewRequestIDOptions(), generator))
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r, &seen
}

func TestRequestID_Generated(t *testing.T) {
	r, seen := newRequestIDEngine(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	got := w.Header().Get(HeaderXRequestID)
	require.NotEmpty(t, got)
	assert.Len(t, got, 26, "ULID is 26 characters")
	assert.Equal(t, got, *seen)
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	r, seen := newRequestIDEngine(func() string { return "generated" })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "client-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-id", w.Header().Get(HeaderXRequestID))
	assert.Equal(t, "client-id", *seen)
}

func TestRequestID_RejectsOversizedIncoming(t *testing.T) {
	r, seen := newRequestIDEngine(func() string { return "generated" })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", maxRequestIDLen+1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "generated", *seen)
}

func TestCORSWithOptions_AllowsAnyOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSWithOptions(*mwopts.NewCORSOptions()))
	r.POST("/api/answer", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/answer", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
