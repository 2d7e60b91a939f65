// Package middleware provides the gin middleware used by the HTTP server.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/support-assistant/pkg/infra/middleware/common"
	mwopts "github.com/kart-io/support-assistant/pkg/options/middleware"
)

// HeaderXRequestID is re-exported from common.
const HeaderXRequestID = common.HeaderXRequestID

// maxRequestIDLen 限制客户端传入的请求 ID 长度。
const maxRequestIDLen = 128

// GetRequestID returns the request ID from the context.
var GetRequestID = common.GetRequestID

// RequestID returns a request ID middleware with default options.
func RequestID() gin.HandlerFunc {
	return RequestIDWithOptions(*mwopts.NewRequestIDOptions(), nil)
}

// RequestIDWithOptions 返回请求 ID 中间件。
// 客户端已携带的 ID 会被沿用，否则由 generator 生成（nil 时使用 ULID）。
// ID 会写入响应头和请求 context。
func RequestIDWithOptions(opts mwopts.RequestIDOptions, generator func() string) gin.HandlerFunc {
	header := opts.Header
	if header == "" {
		header = HeaderXRequestID
	}
	if generator == nil {
		generator = common.GenerateRequestID
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(header)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = generator()
		}

		c.Header(header, requestID)
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
