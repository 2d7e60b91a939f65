// Package middleware provides middleware configuration options.
package middleware

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"

	"github.com/kart-io/support-assistant/pkg/options"
)

// 中间件名称常量。
const (
	MiddlewareRecovery  = "recovery"
	MiddlewareRequestID = "request-id"
	MiddlewareLogger    = "logger"
	MiddlewareCORS      = "cors"
)

// defaultOrder 为默认的中间件顺序。
var defaultOrder = []string{
	MiddlewareRecovery,
	MiddlewareRequestID,
	MiddlewareLogger,
	MiddlewareCORS,
}

// Options 中间件配置。
// 是否启用中间件由 Middleware 数组控制，数组顺序即应用顺序。
type Options struct {
	// Middleware 指定启用的中间件及其应用顺序。
	Middleware []string `json:"middleware" mapstructure:"middleware"`

	Recovery  *RecoveryOptions  `json:"recovery" mapstructure:"recovery"`
	RequestID *RequestIDOptions `json:"request-id" mapstructure:"request-id"`
	Logger    *LoggerOptions    `json:"logger" mapstructure:"logger"`
	CORS      *CORSOptions      `json:"cors" mapstructure:"cors"`
}

// NewOptions 创建默认中间件选项。
func NewOptions() *Options {
	return &Options{
		Middleware: slices.Clone(defaultOrder),
		Recovery:   NewRecoveryOptions(),
		RequestID:  NewRequestIDOptions(),
		Logger:     NewLoggerOptions(),
		CORS:       NewCORSOptions(),
	}
}

// IsEnabled reports whether the named middleware is in the active list.
func (o *Options) IsEnabled(name string) bool {
	if o == nil {
		return false
	}
	return slices.Contains(o.Middleware, name)
}

// AddFlags adds flags for middleware options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringSliceVar(&o.Middleware, options.Join(prefixes...)+"middleware.enabled", o.Middleware,
		"Ordered list of enabled middleware (recovery, request-id, logger, cors).")
	o.Recovery.AddFlags(fs, prefixes...)
	o.RequestID.AddFlags(fs, prefixes...)
	o.Logger.AddFlags(fs, prefixes...)
	o.CORS.AddFlags(fs, prefixes...)
}

// Validate validates all middleware options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	for _, name := range o.Middleware {
		if !slices.Contains(defaultOrder, name) {
			errs = append(errs, fmt.Errorf("unknown middleware %q", name))
		}
	}
	if o.IsEnabled(MiddlewareRequestID) {
		errs = append(errs, o.RequestID.Validate()...)
	}
	if o.IsEnabled(MiddlewareCORS) {
		errs = append(errs, o.CORS.Validate()...)
	}
	return errs
}

// Complete 补全未初始化的子配置。
func (o *Options) Complete() error {
	if o.Recovery == nil {
		o.Recovery = NewRecoveryOptions()
	}
	if o.RequestID == nil {
		o.RequestID = NewRequestIDOptions()
	}
	if o.Logger == nil {
		o.Logger = NewLoggerOptions()
	}
	if o.CORS == nil {
		o.CORS = NewCORSOptions()
	}
	return nil
}
