// Package observability provides observability middleware.
package observability

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/pkg/infra/middleware/common"
	mwopts "github.com/kart-io/support-assistant/pkg/options/middleware"
)

// fieldsPool reuses fields slices across requests.
var fieldsPool = sync.Pool{
	New: func() interface{} {
		s := make([]interface{}, 0, 16)
		return &s
	},
}

// Logger returns a middleware that logs HTTP requests with default options.
func Logger() gin.HandlerFunc {
	return LoggerWithOptions(*mwopts.NewLoggerOptions())
}

// LoggerWithOptions 返回访问日志中间件，请求结束后输出一条结构化日志。
func LoggerWithOptions(opts mwopts.LoggerOptions) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := fieldsPool.Get().(*[]interface{})
		defer func() {
			*fields = (*fields)[:0]
			fieldsPool.Put(fields)
		}()

		*fields = append(*fields,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"remote_addr", c.ClientIP(),
			"latency", latency.String(),
			"latency_ms", latency.Milliseconds(),
		)
		if requestID := common.GetRequestID(c.Request.Context()); requestID != "" {
			*fields = append(*fields, "request_id", requestID)
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Errorw("HTTP Request", (*fields)...)
		case c.Writer.Status() >= 400:
			logger.Warnw("HTTP Request", (*fields)...)
		default:
			logger.Infow("HTTP Request", (*fields)...)
		}
	}
}
