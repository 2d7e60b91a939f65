// Package logger configures the global kart-io logger.
package logger

import (
	"fmt"
	"strings"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/option"
	"github.com/spf13/pflag"
)

// Options wraps option.LogOption.
//
// Flag names reuse the struct's mapstructure keys so that a flag, the
// matching config file entry and the SUPPORT_ASSISTANT_LOG_* variable all
// land on the same field.
type Options struct {
	*option.LogOption
}

// NewOptions returns JSON logs at INFO on stdout.
func NewOptions() *Options {
	return &Options{LogOption: option.DefaultLogOption()}
}

// AddFlags registers the log.* flags.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Engine, "log.engine", o.Engine, "Logging engine (zap|slog).")
	fs.StringVar(&o.Level, "log.level", o.Level, "Log level (DEBUG|INFO|WARN|ERROR|FATAL).")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log format (json|console).")
	fs.StringSliceVar(&o.OutputPaths, "log.output_paths", o.OutputPaths, "Log outputs: stdout, stderr or file paths.")
	fs.BoolVar(&o.Development, "log.development", o.Development, "Human friendly development logging.")
	fs.BoolVar(&o.DisableCaller, "log.disable_caller", o.DisableCaller, "Omit the caller field.")
	fs.BoolVar(&o.DisableStacktrace, "log.disable_stacktrace", o.DisableStacktrace, "Omit stack traces on errors.")

	if o.Rotation == nil {
		o.Rotation = &option.RotationOption{}
	}
	fs.IntVar(&o.Rotation.MaxSize, "log.rotation.max_size", o.Rotation.MaxSize, "Rotate file outputs after this many MB.")
	fs.IntVar(&o.Rotation.MaxBackups, "log.rotation.max_backups", o.Rotation.MaxBackups, "Rotated files to keep.")
	fs.IntVar(&o.Rotation.MaxAge, "log.rotation.max_age", o.Rotation.MaxAge, "Days to keep rotated files.")
}

// Complete normalizes the level.
func (o *Options) Complete() error {
	o.Level = strings.ToUpper(strings.TrimSpace(o.Level))
	return nil
}

// Validate checks level and rotation settings.
func (o *Options) Validate() error {
	if err := o.LogOption.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// WithService tags every entry with the service name and version.
func (o *Options) WithService(name, version string) *Options {
	o.AddInitialField("service.name", name)
	o.AddInitialField("service.version", version)
	return o
}

// Init builds the logger and installs it globally.
func (o *Options) Init() error {
	log, err := logger.New(o.LogOption)
	if err != nil {
		return err
	}
	logger.SetGlobal(log)
	return nil
}
