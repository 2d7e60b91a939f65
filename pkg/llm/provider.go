// Package llm 定义对话模型供应商接口与按名称注册的工厂。
package llm

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrUnknownProvider 未注册的供应商名称。
var ErrUnknownProvider = errors.New("unknown chat provider")

// ChatProvider 对话模型供应商。
type ChatProvider interface {
	// Chat 多轮对话，messages 按时间顺序排列。
	Chat(ctx context.Context, messages []Message) (string, error)

	// Generate 单轮生成；systemPrompt 为空时不发送系统指令。
	Generate(ctx context.Context, prompt string, systemPrompt string) (string, error)

	Name() string
}

// Role 消息角色。
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 一条对话消息，也是会话账本中保存的单元。
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatProviderFactory 由配置 map 构造供应商。
type ChatProviderFactory func(config map[string]any) (ChatProvider, error)

var registry = struct {
	sync.RWMutex
	factories map[string]ChatProviderFactory
}{factories: make(map[string]ChatProviderFactory)}

// RegisterChatProvider 注册工厂，通常在供应商包的 init 中调用。同名覆盖。
func RegisterChatProvider(name string, factory ChatProviderFactory) {
	registry.Lock()
	defer registry.Unlock()
	registry.factories[name] = factory
}

// NewChatProvider 按名称创建供应商。
func NewChatProvider(name string, config map[string]any) (ChatProvider, error) {
	registry.RLock()
	factory, ok := registry.factories[name]
	registry.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownProvider, name, ListProviders())
	}
	return factory(config)
}

// ListProviders 返回已注册的名称，按字母排序。
func ListProviders() []string {
	registry.RLock()
	defer registry.RUnlock()
	return slices.Sorted(maps.Keys(registry.factories))
}
