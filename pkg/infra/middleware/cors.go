package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	mwopts "github.com/kart-io/support-assistant/pkg/options/middleware"
)

// CORSWithOptions 基于 gin-contrib/cors 构建跨域中间件。
func CORSWithOptions(opts mwopts.CORSOptions) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     opts.AllowMethods,
		AllowHeaders:     opts.AllowHeaders,
		ExposeHeaders:    opts.ExposeHeaders,
		AllowCredentials: opts.AllowCredentials,
		MaxAge:           opts.MaxAge,
	}
	if opts.AllowAllOrigins() {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = opts.AllowOrigins
	}
	return cors.New(cfg)
}
