// Package http provides HTTP listener options.
package http

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/support-assistant/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options HTTP 监听配置。
type Options struct {
	// Addr 监听地址，host 可省略
	Addr string `json:"addr" mapstructure:"addr"`
	// ReadTimeout 读取整个请求的超时
	ReadTimeout time.Duration `json:"read-timeout" mapstructure:"read-timeout"`
	// WriteTimeout 需覆盖一次模型调用，因此默认大于模型超时
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
	// IdleTimeout keep-alive 空闲超时
	IdleTimeout time.Duration `json:"idle-timeout" mapstructure:"idle-timeout"`
}

// NewOptions returns listener defaults.
func NewOptions() *Options {
	return &Options{
		Addr:         ":8000",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// AddFlags registers the listener flags under the given prefixes.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "http."
	fs.StringVar(&o.Addr, p+"addr", o.Addr, "HTTP listen address (host:port).")
	fs.DurationVar(&o.ReadTimeout, p+"read-timeout", o.ReadTimeout, "Timeout for reading a whole request.")
	fs.DurationVar(&o.WriteTimeout, p+"write-timeout", o.WriteTimeout, "Timeout for writing a response, including the model call.")
	fs.DurationVar(&o.IdleTimeout, p+"idle-timeout", o.IdleTimeout, "Keep-alive idle timeout.")
}

// SetPort replaces the port of Addr and keeps its host.
func (o *Options) SetPort(port int) {
	host, _, err := net.SplitHostPort(o.Addr)
	if err != nil {
		host = ""
	}
	o.Addr = net.JoinHostPort(host, strconv.Itoa(port))
}

// Validate checks the listener options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if _, port, err := net.SplitHostPort(o.Addr); err != nil {
		errs = append(errs, fmt.Errorf("http.addr %q: %w", o.Addr, err))
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("http.addr %q has an invalid port", o.Addr))
	}
	if o.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.read-timeout must be positive"))
	}
	if o.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.write-timeout must be positive"))
	}
	return errs
}
