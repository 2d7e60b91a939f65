package middleware

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/kart-io/support-assistant/pkg/options"
)

// RecoveryOptions 恢复中间件配置。
type RecoveryOptions struct {
	// EnableStackTrace 在 500 响应中附带堆栈，仅用于开发环境
	EnableStackTrace bool `json:"enable-stack-trace" mapstructure:"enable-stack-trace"`
}

// NewRecoveryOptions returns recovery defaults (no stack traces).
func NewRecoveryOptions() *RecoveryOptions {
	return &RecoveryOptions{}
}

// AddFlags registers middleware.recovery.* flags.
func (o *RecoveryOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.EnableStackTrace, options.Join(prefixes...)+"middleware.recovery.enable-stack-trace",
		o.EnableStackTrace, "Include the stack trace in panic responses.")
}

// RequestIDOptions 请求 ID 中间件配置。
type RequestIDOptions struct {
	// Header 读取与回写请求 ID 的请求头
	Header string `json:"header" mapstructure:"header"`
}

// NewRequestIDOptions returns request id defaults.
func NewRequestIDOptions() *RequestIDOptions {
	return &RequestIDOptions{Header: "X-Request-ID"}
}

// AddFlags registers middleware.request-id.* flags.
func (o *RequestIDOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Header, options.Join(prefixes...)+"middleware.request-id.header", o.Header,
		"Header carrying the request id.")
}

// Validate requires a header name.
func (o *RequestIDOptions) Validate() []error {
	if o != nil && o.Header == "" {
		return []error{errors.New("middleware.request-id.header is required")}
	}
	return nil
}

// LoggerOptions 访问日志中间件配置。
type LoggerOptions struct {
	// SkipPaths 不记录访问日志的路径，默认跳过探活与指标抓取
	SkipPaths []string `json:"skip-paths" mapstructure:"skip-paths"`
}

// NewLoggerOptions returns access log defaults.
func NewLoggerOptions() *LoggerOptions {
	return &LoggerOptions{SkipPaths: []string{"/api/health", "/metrics"}}
}

// AddFlags registers middleware.logger.* flags.
func (o *LoggerOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringSliceVar(&o.SkipPaths, options.Join(prefixes...)+"middleware.logger.skip-paths", o.SkipPaths,
		"Paths excluded from the access log.")
}
