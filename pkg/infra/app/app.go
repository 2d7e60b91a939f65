// Package app provides application bootstrapping with Cobra, Viper, and Pflag.
//
// Configuration is layered, highest precedence first: changed flags,
// environment variables (prefixed with the upper-cased app name, plus any
// registered aliases), the config file, then flag defaults. A .env file in
// the working directory is loaded into the environment before anything else.
//
// Usage:
//
//	app := app.NewApp(
//	    app.WithName("myapp"),
//	    app.WithDescription("My application"),
//	    app.WithOptions(opts),
//	    app.WithRunFunc(run),
//	)
//	app.Run()
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kart-io/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App is the main application structure.
type App struct {
	name        string
	description string
	options     CliOptions
	runFunc     RunFunc
	envAliases  map[string][]string
	dotenvFiles []string
	cmd         *cobra.Command
	v           *viper.Viper
	silence     bool
	noVersion   bool
}

// RunFunc is the application's run function.
type RunFunc func() error

// Option configures an App.
type Option func(*App)

// WithName sets the application name.
func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithDescription sets the long description.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithOptions sets the CLI options.
func WithOptions(opts CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the run function.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithEnvAlias binds extra, unprefixed environment variable names to a config key.
// The prefixed variable still takes precedence.
func WithEnvAlias(key string, envNames ...string) Option {
	return func(a *App) {
		if a.envAliases == nil {
			a.envAliases = make(map[string][]string)
		}
		a.envAliases[key] = append(a.envAliases[key], envNames...)
	}
}

// WithDotenv overrides the dotenv files loaded at startup (default ".env").
func WithDotenv(files ...string) Option {
	return func(a *App) {
		a.dotenvFiles = files
	}
}

// WithSilence disables usage and error printing.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithNoVersion disables version flag.
func WithNoVersion() Option {
	return func(a *App) {
		a.noVersion = true
	}
}

// NewApp creates a new application instance.
func NewApp(opts ...Option) *App {
	a := &App{
		name:        filepath.Base(os.Args[0]),
		dotenvFiles: []string{".env"},
		v:           viper.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.buildCommand()
	return a
}

// buildCommand creates the cobra command.
func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:  a.name,
		Long: a.description,
		RunE: a.runCommand,
		Args: cobra.NoArgs,
		// Always silence usage on errors - users can use --help to see usage
		SilenceUsage: true,
	}

	if a.silence {
		cmd.SilenceErrors = true
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	a.addGlobalFlags(cmd)

	if a.options != nil {
		a.options.AddFlags(cmd.Flags())
	}

	a.cmd = cmd
}

// addGlobalFlags adds global flags to the command.
func (a *App) addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file")

	if !a.noVersion {
		version.AddFlags(cmd.PersistentFlags())
	}

	cmd.PersistentFlags().BoolP("help", "h", false, "Help for "+a.name)
}

// runCommand is the main run function for the command.
func (a *App) runCommand(cmd *cobra.Command, _ []string) error {
	if !a.noVersion {
		version.PrintAndExitIfRequested()
	}

	if err := a.loadDotenv(); err != nil {
		return err
	}

	if err := a.loadConfig(cmd); err != nil {
		return err
	}

	// Complete and validate options
	if a.options != nil {
		if err := a.options.Complete(); err != nil {
			return err
		}
		if err := a.options.Validate(); err != nil {
			return err
		}
	}

	if a.runFunc != nil {
		return a.runFunc()
	}

	return nil
}

// loadDotenv 将 .env 文件加载到进程环境变量中，已存在的变量不会被覆盖。
func (a *App) loadDotenv() error {
	for _, file := range a.dotenvFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// loadConfig loads configuration from file, environment, and flags.
func (a *App) loadConfig(cmd *cobra.Command) error {
	v := a.v

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(a.name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), "."+a.name))
		v.AddConfigPath("/etc/" + a.name)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	expandEnvVars(v)

	prefix := strings.ToUpper(strings.ReplaceAll(a.name, "-", "_"))
	replacer := strings.NewReplacer(".", "_", "-", "_")
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	for key, names := range a.envAliases {
		// 显式绑定会替代自动前缀，因此需同时绑定前缀变量名
		bound := append([]string{prefix + "_" + strings.ToUpper(replacer.Replace(key))}, names...)
		if err := v.BindEnv(append([]string{key}, bound...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	// Flags are bound so viper knows every key; unchanged flags act as defaults.
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if a.options != nil {
		if err := v.Unmarshal(a.options); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	return nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands ${VAR} and $VAR style environment variables in config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		expanded := envPattern.ReplaceAllStringFunc(strVal, func(match string) string {
			varName := strings.TrimPrefix(match, "$")
			varName = strings.TrimSuffix(strings.TrimPrefix(varName, "{"), "}")
			if envVal := os.Getenv(varName); envVal != "" {
				return envVal
			}
			return match // 保留原样，如果环境变量不存在
		})
		if expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// GetVersion returns the git version stamped into the binary.
func GetVersion() string {
	return version.Get().GitVersion
}

// Run executes the application.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command returns the cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}
