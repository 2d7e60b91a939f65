// Package server provides server manager configuration options.
package server

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	mwopts "github.com/kart-io/support-assistant/pkg/options/middleware"
	httpopts "github.com/kart-io/support-assistant/pkg/options/server/http"
)

// Options contains all configuration for the server manager.
type Options struct {
	// HTTP contains HTTP server options.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Middleware contains the HTTP middleware chain options.
	Middleware *mwopts.Options `json:"middleware" mapstructure:"middleware"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// Option is a function that configures Options.
type Option func(*Options)

// NewOptions creates a new Options with default values.
func NewOptions() *Options {
	return &Options{
		HTTP:            httpopts.NewOptions(),
		Middleware:      mwopts.NewOptions(),
		ShutdownTimeout: 30 * time.Second,
	}
}

// AddFlags adds flags for server options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.ShutdownTimeout, "server.shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")
	o.HTTP.AddFlags(fs, "server")
	o.Middleware.AddFlags(fs, "server")
}

// Validate validates all server options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.shutdown-timeout must be positive"))
	}
	errs = append(errs, o.HTTP.Validate()...)
	errs = append(errs, o.Middleware.Validate()...)
	return errs
}

// Complete completes all server options with defaults.
func (o *Options) Complete() error {
	if o.HTTP == nil {
		o.HTTP = httpopts.NewOptions()
	}
	if o.Middleware == nil {
		o.Middleware = mwopts.NewOptions()
	}
	return o.Middleware.Complete()
}

// WithHTTPOptions sets HTTP server options.
func WithHTTPOptions(opts *httpopts.Options) Option {
	return func(o *Options) {
		o.HTTP = opts
	}
}

// WithMiddleware sets middleware options.
func WithMiddleware(opts *mwopts.Options) Option {
	return func(o *Options) {
		o.Middleware = opts
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ShutdownTimeout = d
	}
}
