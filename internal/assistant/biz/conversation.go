package biz

import (
	"sync"

	"github.com/kart-io/support-assistant/pkg/id"
	"github.com/kart-io/support-assistant/pkg/llm"
)

// ConversationLedger 按会话 ID 保存消息历史，仅存于进程内存。
type ConversationLedger struct {
	mu            sync.RWMutex
	conversations map[string][]llm.Message
	newID         func() string
}

// NewConversationLedger 创建会话账本。
func NewConversationLedger() *ConversationLedger {
	return &ConversationLedger{
		conversations: make(map[string][]llm.Message),
		newID:         id.NewUUID,
	}
}

// GetOrCreate 返回已知会话 ID；否则创建新会话并返回新 ID。调用方提供的未知 ID 不会被复用。
func (l *ConversationLedger) GetOrCreate(conversationID string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if conversationID != "" {
		if _, ok := l.conversations[conversationID]; ok {
			return conversationID
		}
	}

	newID := l.newID()
	l.conversations[newID] = []llm.Message{}
	return newID
}

// Exists 判断会话是否存在。
func (l *ConversationLedger) Exists(conversationID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.conversations[conversationID]
	return ok
}

// Append 向已存在的会话追加消息。
func (l *ConversationLedger) Append(conversationID string, role llm.Role, content string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	history, ok := l.conversations[conversationID]
	if !ok {
		return false
	}
	l.conversations[conversationID] = append(history, llm.Message{Role: role, Content: content})
	return true
}

// History 返回会话消息的副本。
func (l *ConversationLedger) History(conversationID string) ([]llm.Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history, ok := l.conversations[conversationID]
	if !ok {
		return nil, false
	}
	out := make([]llm.Message, len(history))
	copy(out, history)
	return out, true
}

// ClearMany 清空已知会话的历史（保留 ID），未知 ID 报告为 false，不会创建新会话。
func (l *ConversationLedger) ClearMany(ids []string) map[string]bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	results := make(map[string]bool, len(ids))
	for _, cid := range ids {
		if _, ok := l.conversations[cid]; ok {
			l.conversations[cid] = []llm.Message{}
			results[cid] = true
		} else {
			results[cid] = false
		}
	}
	return results
}

// Len 返回会话数量。
func (l *ConversationLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.conversations)
}
