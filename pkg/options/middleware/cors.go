package middleware

import (
	"errors"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/support-assistant/pkg/options"
)

// CORSOptions defines CORS middleware options.
type CORSOptions struct {
	AllowOrigins     []string      `json:"allow-origins" mapstructure:"allow-origins"`
	AllowMethods     []string      `json:"allow-methods" mapstructure:"allow-methods"`
	AllowHeaders     []string      `json:"allow-headers" mapstructure:"allow-headers"`
	ExposeHeaders    []string      `json:"expose-headers" mapstructure:"expose-headers"`
	AllowCredentials bool          `json:"allow-credentials" mapstructure:"allow-credentials"`
	MaxAge           time.Duration `json:"max-age" mapstructure:"max-age"`
}

// NewCORSOptions creates default CORS options. Browsers may call from any origin.
func NewCORSOptions() *CORSOptions {
	return &CORSOptions{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
}

// AllowAllOrigins reports whether the wildcard origin is configured.
func (o *CORSOptions) AllowAllOrigins() bool {
	for _, origin := range o.AllowOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// AddFlags adds flags for CORS options to the specified FlagSet.
func (o *CORSOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringSliceVar(&o.AllowOrigins, options.Join(prefixes...)+"middleware.cors.allow-origins", o.AllowOrigins, "CORS allowed origins.")
	fs.StringSliceVar(&o.AllowMethods, options.Join(prefixes...)+"middleware.cors.allow-methods", o.AllowMethods, "CORS allowed methods.")
	fs.StringSliceVar(&o.AllowHeaders, options.Join(prefixes...)+"middleware.cors.allow-headers", o.AllowHeaders, "CORS allowed headers.")
	fs.StringSliceVar(&o.ExposeHeaders, options.Join(prefixes...)+"middleware.cors.expose-headers", o.ExposeHeaders, "CORS exposed headers.")
	fs.BoolVar(&o.AllowCredentials, options.Join(prefixes...)+"middleware.cors.allow-credentials", o.AllowCredentials, "CORS allow credentials.")
	fs.DurationVar(&o.MaxAge, options.Join(prefixes...)+"middleware.cors.max-age", o.MaxAge, "CORS preflight max age.")
}

// Validate validates the CORS options.
func (o *CORSOptions) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if len(o.AllowOrigins) == 0 {
		errs = append(errs, errors.New("CORS: AllowOrigins must be explicitly configured, empty list not allowed"))
	}
	if o.AllowCredentials && o.AllowAllOrigins() {
		errs = append(errs, errors.New("CORS: AllowCredentials cannot be combined with wildcard origin"))
	}
	return errs
}
