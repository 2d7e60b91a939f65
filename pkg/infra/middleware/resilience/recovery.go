// Package resilience provides middleware that keeps the server answering under faults.
package resilience

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/pkg/infra/middleware/common"
	mwopts "github.com/kart-io/support-assistant/pkg/options/middleware"
	"github.com/kart-io/support-assistant/pkg/utils/errors"
	"github.com/kart-io/support-assistant/pkg/utils/response"
)

// PanicHandler 定义 panic 处理器类型。
type PanicHandler func(c *gin.Context, recovered interface{}, stack []byte)

// Recovery returns a middleware that recovers from panics with default options.
func Recovery() gin.HandlerFunc {
	return RecoveryWithOptions(*mwopts.NewRecoveryOptions(), nil)
}

// RecoveryWithOptions 返回 Recovery 中间件。
// onPanic 可选，用于告警等额外处理；panic 总会被记录并转换为 ErrPanic 响应。
func RecoveryWithOptions(opts mwopts.RecoveryOptions, onPanic PanicHandler) gin.HandlerFunc {
	exposeStack := opts.EnableStackTrace
	if exposeStack && isProduction() {
		logger.Warn("Stack trace is enabled in production; it will only be written to logs")
		exposeStack = false
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()

			logger.Errorw("panic recovered",
				"panic", r,
				"stack_trace", string(stack),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", common.GetRequestID(c.Request.Context()),
			)

			if onPanic != nil {
				onPanic(c, r, stack)
			}

			msg := fmt.Sprintf("panic: %v", r)
			if exposeStack {
				msg = fmt.Sprintf("%s\n%s", msg, stack)
			}
			response.Fail(c, errors.ErrPanic.WithMessage(msg))
		}()
		c.Next()
	}
}

// isProduction 根据 APP_ENV 或 GO_ENV 判断是否为生产环境。
func isProduction() bool {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("GO_ENV")
	}
	switch strings.ToLower(env) {
	case "production", "prod":
		return true
	default:
		return false
	}
}
