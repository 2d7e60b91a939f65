// Package llm provides LLM provider configuration options.
package llm

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/support-assistant/pkg/options"
)

var _ options.IOptions = (*ProviderOptions)(nil)

// ProviderOptions 定义 LLM 供应商配置。
type ProviderOptions struct {
	// Provider 供应商名称（gemini）。
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL API 基础地址。
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey API 密钥，也可通过 GOOGLE_API_KEY 注入。
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model 使用的模型名称。
	Model string `json:"model" mapstructure:"model"`

	// Temperature 采样温度，0 表示使用模型默认值。
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// MaxOutputTokens 单次回答的最大 token 数，0 表示使用模型默认值。
	MaxOutputTokens int `json:"max-output-tokens" mapstructure:"max-output-tokens"`

	// Timeout 请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 最大重试次数。
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// RetryBackoff 重试基础间隔。
	RetryBackoff time.Duration `json:"retry-backoff" mapstructure:"retry-backoff"`
}

// NewProviderOptions 创建默认 LLM 供应商配置。
func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:     "gemini",
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta",
		Model:        "gemini-2.0-flash",
		Timeout:      120 * time.Second,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// ToConfigMap 转换为配置 map，用于供应商工厂。
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":          o.BaseURL,
		"api_key":           o.APIKey,
		"chat_model":        o.Model,
		"temperature":       o.Temperature,
		"max_output_tokens": o.MaxOutputTokens,
		"timeout":           o.Timeout,
		"max_retries":       o.MaxRetries,
		"retry_backoff":     o.RetryBackoff,
	}
}

// AddFlags adds flags for LLM provider options to the specified FlagSet.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Provider, options.Join(prefixes...)+"provider", o.Provider, "LLM provider (gemini).")
	fs.StringVar(&o.BaseURL, options.Join(prefixes...)+"base-url", o.BaseURL, "LLM API base URL.")
	fs.StringVar(&o.APIKey, options.Join(prefixes...)+"api-key", o.APIKey, "LLM API key (prefer the GOOGLE_API_KEY env var).")
	fs.StringVar(&o.Model, options.Join(prefixes...)+"model", o.Model, "LLM model name.")
	fs.Float64Var(&o.Temperature, options.Join(prefixes...)+"temperature", o.Temperature, "LLM sampling temperature (0 uses the model default).")
	fs.IntVar(&o.MaxOutputTokens, options.Join(prefixes...)+"max-output-tokens", o.MaxOutputTokens, "Maximum tokens per answer (0 uses the model default).")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"timeout", o.Timeout, "LLM request timeout.")
	fs.IntVar(&o.MaxRetries, options.Join(prefixes...)+"max-retries", o.MaxRetries, "LLM retries on transport errors and 5xx responses.")
	fs.DurationVar(&o.RetryBackoff, options.Join(prefixes...)+"retry-backoff", o.RetryBackoff, "Base delay between LLM retries.")
}

// Validate validates the LLM provider options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("provider is required"))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("base-url is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("model is required"))
	}
	if o.Provider == "gemini" && o.APIKey == "" {
		errs = append(errs, fmt.Errorf("api-key is required for gemini provider (set GOOGLE_API_KEY)"))
	}
	if o.Temperature < 0 {
		errs = append(errs, fmt.Errorf("temperature must not be negative"))
	}
	if o.MaxOutputTokens < 0 {
		errs = append(errs, fmt.Errorf("max-output-tokens must not be negative"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}
	return errs
}

// Complete completes the LLM provider options with defaults.
func (o *ProviderOptions) Complete() error {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	return nil
}
