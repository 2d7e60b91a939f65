package llm

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderOptions_Defaults(t *testing.T) {
	opts := NewProviderOptions()

	assert.Equal(t, "gemini", opts.Provider)
	assert.Equal(t, "gemini-2.0-flash", opts.Model)

	// api key is mandatory for gemini
	errs := opts.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "api-key")
}

func TestProviderOptions_FlagsAndConfigMap(t *testing.T) {
	opts := NewProviderOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs, "chat")

	require.NoError(t, fs.Parse([]string{
		"--chat.api-key=k",
		"--chat.model=gemini-1.5-pro",
		"--chat.max-output-tokens=8192",
		"--chat.retry-backoff=2s",
	}))
	assert.Empty(t, opts.Validate())

	m := opts.ToConfigMap()
	assert.Equal(t, "k", m["api_key"])
	assert.Equal(t, "gemini-1.5-pro", m["chat_model"])
	assert.Equal(t, 8192, m["max_output_tokens"])
	assert.Equal(t, 2*time.Second, m["retry_backoff"])
	assert.Equal(t, 0.0, m["temperature"])
}

func TestProviderOptions_CompleteClampsRetries(t *testing.T) {
	opts := NewProviderOptions()
	opts.MaxRetries = -2

	require.NoError(t, opts.Complete())
	assert.Equal(t, 0, opts.MaxRetries)
}

func TestProviderOptions_NegativeGenerationSettings(t *testing.T) {
	opts := NewProviderOptions()
	opts.APIKey = "k"
	opts.Temperature = -1
	opts.MaxOutputTokens = -5

	assert.Len(t, opts.Validate(), 2)
}
