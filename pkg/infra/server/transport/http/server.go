// Package http provides the gin based HTTP transport.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/pkg/infra/middleware"
	"github.com/kart-io/support-assistant/pkg/infra/middleware/observability"
	"github.com/kart-io/support-assistant/pkg/infra/middleware/resilience"
	"github.com/kart-io/support-assistant/pkg/infra/server/transport"
	mwopts "github.com/kart-io/support-assistant/pkg/options/middleware"
	options "github.com/kart-io/support-assistant/pkg/options/server/http"
	apierrors "github.com/kart-io/support-assistant/pkg/utils/errors"
	"github.com/kart-io/support-assistant/pkg/utils/response"
)

// Options is re-exported from the options package.
type Options = options.Options

// NewOptions is re-exported from the options package.
var NewOptions = options.NewOptions

// Server is the HTTP server implementation.
type Server struct {
	opts     *options.Options
	engine   *gin.Engine
	server   *http.Server
	listener net.Listener
}

var _ transport.Transport = (*Server)(nil)

// NewServer creates a new HTTP server with the given options.
func NewServer(serverOpts *options.Options, middlewareOpts *mwopts.Options) *Server {
	if serverOpts == nil {
		serverOpts = options.NewOptions()
	}
	if middlewareOpts == nil {
		middlewareOpts = mwopts.NewOptions()
	}

	// 设置 Gin 模式
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎（不使用默认中间件）
	engine := gin.New()

	s := &Server{
		opts:   serverOpts,
		engine: engine,
	}

	// 中间件必须在注册路由之前应用，否则不会被路由组继承
	s.applyMiddleware(middlewareOpts)

	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, apierrors.ErrRouteNotFound)
	})

	return s
}

// Name returns the server name.
func (s *Server) Name() string {
	return "http[gin]"
}

// Engine returns the underlying gin.Engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Start binds the listener and serves in the background.
// Bind failures are returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("HTTP server stopped unexpectedly", "addr", s.Addr(), "error", err)
		}
	}()
	return nil
}

// Stop stops the HTTP server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// applyMiddleware 按配置顺序注册中间件。
func (s *Server) applyMiddleware(opts *mwopts.Options) {
	_ = opts.Complete()

	for _, name := range opts.Middleware {
		switch name {
		case mwopts.MiddlewareRecovery:
			s.engine.Use(resilience.RecoveryWithOptions(*opts.Recovery, nil))
		case mwopts.MiddlewareRequestID:
			s.engine.Use(middleware.RequestIDWithOptions(*opts.RequestID, nil))
		case mwopts.MiddlewareLogger:
			s.engine.Use(observability.LoggerWithOptions(*opts.Logger))
		case mwopts.MiddlewareCORS:
			s.engine.Use(middleware.CORSWithOptions(*opts.CORS))
		}
	}
}
