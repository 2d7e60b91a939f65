package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOptions struct {
	Name     string        `mapstructure:"name"`
	Levels   int           `mapstructure:"levels"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Nested   nestedOptions `mapstructure:"nested"`
	complete bool
	invalid  bool
}

type nestedOptions struct {
	Addr string `mapstructure:"addr"`
}

func newTestOptions() *testOptions {
	return &testOptions{Name: "default", Levels: 5, Timeout: time.Second, Nested: nestedOptions{Addr: ":8000"}}
}

func (o *testOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Name, "name", o.Name, "name")
	fs.IntVar(&o.Levels, "levels", o.Levels, "levels")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "timeout")
	fs.StringVar(&o.Nested.Addr, "nested.addr", o.Nested.Addr, "addr")
}

func (o *testOptions) Complete() error {
	o.complete = true
	return nil
}

func (o *testOptions) Validate() error {
	if o.invalid {
		return errors.New("invalid")
	}
	return nil
}

func runApp(t *testing.T, opts *testOptions, args []string, extra ...Option) error {
	t.Helper()
	dir := t.TempDir()
	base := []Option{
		WithName("testapp"),
		WithOptions(opts),
		WithNoVersion(),
		WithSilence(),
		WithDotenv(filepath.Join(dir, ".env")),
	}
	a := NewApp(append(base, extra...)...)
	// nil 会让 cobra 回退到 os.Args，读到 go test 自身的参数
	if args == nil {
		args = []string{}
	}
	a.Command().SetArgs(args)
	return a.Command().Execute()
}

func TestApp_DefaultsFromFlags(t *testing.T) {
	opts := newTestOptions()
	require.NoError(t, runApp(t, opts, nil))

	assert.Equal(t, "default", opts.Name)
	assert.Equal(t, 5, opts.Levels)
	assert.Equal(t, ":8000", opts.Nested.Addr)
	assert.True(t, opts.complete)
}

func TestApp_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "testapp.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("name: file\nlevels: 2\ntimeout: 3s\nnested:\n  addr: \":9000\"\n"), 0o600))

	t.Setenv("TESTAPP_LEVELS", "7")

	opts := newTestOptions()
	require.NoError(t, runApp(t, opts, []string{"--config", cfg, "--name", "flag"}))

	assert.Equal(t, "flag", opts.Name, "changed flag wins")
	assert.Equal(t, 7, opts.Levels, "env beats config file")
	assert.Equal(t, 3*time.Second, opts.Timeout, "config file beats flag default")
	assert.Equal(t, ":9000", opts.Nested.Addr)
}

func TestApp_EnvAlias(t *testing.T) {
	t.Setenv("MAX_LEVELS", "3")

	opts := newTestOptions()
	require.NoError(t, runApp(t, opts, nil, WithEnvAlias("levels", "MAX_LEVELS")))
	assert.Equal(t, 3, opts.Levels)

	t.Setenv("TESTAPP_LEVELS", "9")
	opts = newTestOptions()
	require.NoError(t, runApp(t, opts, nil, WithEnvAlias("levels", "MAX_LEVELS")))
	assert.Equal(t, 9, opts.Levels, "prefixed variable takes precedence over alias")
}

func TestApp_Dotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TESTAPP_NAME=dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TESTAPP_NAME") })

	opts := newTestOptions()
	require.NoError(t, runApp(t, opts, nil, WithDotenv(envFile)))
	assert.Equal(t, "dotenv", opts.Name)
}

func TestApp_ValidateError(t *testing.T) {
	opts := newTestOptions()
	opts.invalid = true
	assert.Error(t, runApp(t, opts, nil))
}

func TestApp_RunFuncCalled(t *testing.T) {
	called := false
	opts := newTestOptions()
	require.NoError(t, runApp(t, opts, nil, WithRunFunc(func() error {
		called = true
		return nil
	})))
	assert.True(t, called)
}

func TestApp_RejectsPositionalArgs(t *testing.T) {
	called := false
	opts := newTestOptions()
	err := runApp(t, opts, []string{"extra"}, WithRunFunc(func() error {
		called = true
		return nil
	}))
	assert.Error(t, err)
	assert.False(t, called)
}
