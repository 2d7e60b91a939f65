// Package gemini 提供 Google Gemini 对话供应商实现（generateContent REST API）。
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kart-io/support-assistant/pkg/llm"
	"github.com/kart-io/support-assistant/pkg/utils/httpclient"
)

const ProviderName = "gemini"

// apiKeyHeader 以请求头传递密钥，避免出现在 URL 与访问日志中。
const apiKeyHeader = "x-goog-api-key"

func init() {
	llm.RegisterChatProvider(ProviderName, NewProvider)
}

// Config Gemini 供应商配置。
type Config struct {
	// BaseURL API 基础地址。
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey Google AI API 密钥。
	APIKey string `json:"-" mapstructure:"api_key"`

	// ChatModel 用于对话的模型。
	ChatModel string `json:"chat_model" mapstructure:"chat_model"`

	// Temperature 采样温度，0 表示使用模型默认值。
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// MaxOutputTokens 单次回答的最大 token 数，0 表示使用模型默认值。
	MaxOutputTokens int `json:"max_output_tokens" mapstructure:"max_output_tokens"`

	// Timeout 请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 传输错误与 5xx 的重试次数。
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`

	// RetryBackoff 重试基础间隔，第 i 次重试等待 (i+1)*RetryBackoff。
	RetryBackoff time.Duration `json:"retry_backoff" mapstructure:"retry_backoff"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		ChatModel: "gemini-2.0-flash",
		Timeout:   120 * time.Second,
	}
}

// Provider Gemini 供应商实现。
type Provider struct {
	config *Config
	client *httpclient.Client
}

// NewProvider 从配置 map 创建 Gemini 供应商。
func NewProvider(configMap map[string]any) (llm.ChatProvider, error) {
	cfg := DefaultConfig()

	if v, ok := configMap["base_url"].(string); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := configMap["api_key"].(string); ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := configMap["chat_model"].(string); ok && v != "" {
		cfg.ChatModel = v
	}
	if v, ok := configMap["temperature"].(float64); ok && v > 0 {
		cfg.Temperature = v
	}
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["max_output_tokens"].(int); ok && v > 0 {
		cfg.MaxOutputTokens = v
	}
	if v, ok := configMap["max_retries"].(int); ok && v > 0 {
		cfg.MaxRetries = v
	}
	if v, ok := configMap["retry_backoff"].(time.Duration); ok && v > 0 {
		cfg.RetryBackoff = v
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api_key 是必需的")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig 使用结构化配置创建 Gemini 供应商。
func NewProviderWithConfig(cfg *Config) *Provider {
	client := httpclient.NewClient(cfg.Timeout, cfg.MaxRetries)
	if cfg.RetryBackoff > 0 {
		client = client.WithBackoff(cfg.RetryBackoff)
	}
	return &Provider{
		config: cfg,
		client: client,
	}
}

// Name 返回供应商名称。
func (p *Provider) Name() string {
	return ProviderName
}

// chatRequest Gemini generateContent API 请求体。
type chatRequest struct {
	Contents          []chatContent     `json:"contents"`
	SystemInstruction *chatContent      `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type chatContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []chatPart `json:"parts"`
}

type chatPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// chatResponse Gemini generateContent API 响应体。
type chatResponse struct {
	Candidates []struct {
		Content struct {
			Parts []chatPart `json:"parts"`
			Role  string     `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// generationConfig 仅在显式配置时发送，否则由模型使用默认值。
func (p *Provider) generationConfig() *generationConfig {
	if p.config.Temperature <= 0 && p.config.MaxOutputTokens <= 0 {
		return nil
	}
	return &generationConfig{
		Temperature:     p.config.Temperature,
		MaxOutputTokens: p.config.MaxOutputTokens,
	}
}

// Chat 进行多轮对话。assistant 角色映射为 Gemini 的 model 角色。
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	reqBody := chatRequest{GenerationConfig: p.generationConfig()}

	for _, msg := range messages {
		part := []chatPart{{Text: msg.Content}}
		switch msg.Role {
		case llm.RoleSystem:
			reqBody.SystemInstruction = &chatContent{Parts: part}
		case llm.RoleUser:
			reqBody.Contents = append(reqBody.Contents, chatContent{Role: "user", Parts: part})
		case llm.RoleAssistant:
			reqBody.Contents = append(reqBody.Contents, chatContent{Role: "model", Parts: part})
		}
	}
	if len(reqBody.Contents) == 0 {
		return "", fmt.Errorf("gemini: 至少需要一条 user 消息")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(p.config.BaseURL, "/"), url.PathEscape(p.config.ChatModel))
	header := http.Header{}
	header.Set(apiKeyHeader, p.config.APIKey)

	var chatResp chatResponse
	if err := p.client.PostJSON(ctx, endpoint, header, reqBody, &chatResp); err != nil {
		return "", fmt.Errorf("gemini 请求失败: %w", err)
	}

	if chatResp.PromptFeedback != nil && chatResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: 提示被拦截: %s", chatResp.PromptFeedback.BlockReason)
	}
	if len(chatResp.Candidates) == 0 {
		return "", fmt.Errorf("未返回响应内容")
	}

	var sb strings.Builder
	for _, part := range chatResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("未返回响应内容 (finishReason=%s)", chatResp.Candidates[0].FinishReason)
	}
	return sb.String(), nil
}

// Generate 根据提示生成文本。
func (p *Provider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	messages := make([]llm.Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	return p.Chat(ctx, messages)
}
