package resilience

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mwopts "github.com/kart-io/support-assistant/pkg/options/middleware"
	"github.com/kart-io/support-assistant/pkg/utils/errors"
	"github.com/kart-io/support-assistant/pkg/utils/json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecovery_NoPanic(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery_CatchesPanic(t *testing.T) {
	var called bool
	r := gin.New()
	r.Use(RecoveryWithOptions(*mwopts.NewRecoveryOptions(), func(_ *gin.Context, recovered interface{}, _ []byte) {
		called = true
		assert.Equal(t, "boom", recovered)
	}))
	r.GET("/panic", func(_ *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrPanic.Code, body.Code)
	assert.Equal(t, "panic: boom", body.Message)
}

func TestRecovery_StackTraceHiddenInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	r := gin.New()
	r.Use(RecoveryWithOptions(mwopts.RecoveryOptions{EnableStackTrace: true}, nil))
	r.GET("/panic", func(_ *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.NotContains(t, w.Body.String(), "goroutine")
}
