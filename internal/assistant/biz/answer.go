package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/pkg/llm"
)

const (
	// NoInfoAnswer 上下文为空时直接返回的回答。
	NoInfoAnswer = "I'm sorry, but I don't have enough information to answer your question about Angel One's services. Is there something else I can help you with?"

	// ApologyAnswer 回答生成失败时返回的致歉文本。
	ApologyAnswer = "I'm sorry, I encountered an error while processing your question. Please try again or contact our support team for assistance."
)

// AnswerConfig 问答服务配置。
type AnswerConfig struct {
	// SupportURL 提示中引用的支持页面
	SupportURL string
	// Limits 提示截断策略
	Limits PromptLimits
}

// Answer 问答结果。
type Answer struct {
	Answer         string `json:"answer"`
	ConversationID string `json:"conversation_id"`
}

// AnswerService 基于启动时装配的上下文与会话历史生成回答。
type AnswerService struct {
	context  *Context
	ledger   *ConversationLedger
	chat     llm.ChatProvider
	config   *AnswerConfig
	reporter *Reporter
}

// NewAnswerService 创建问答服务，并在此处装配一次知识库上下文。
func NewAnswerService(ctx context.Context, kb *KnowledgeBase, ledger *ConversationLedger,
	chat llm.ChatProvider, cfg *AnswerConfig, reporter *Reporter,
) (*AnswerService, error) {
	if kb == nil {
		return nil, errors.New("knowledge base is required")
	}
	if ledger == nil {
		return nil, errors.New("conversation ledger is required")
	}
	if chat == nil {
		return nil, errors.New("chat provider is required")
	}
	if cfg == nil {
		cfg = &AnswerConfig{}
	}
	if cfg.SupportURL == "" {
		cfg.SupportURL = DefaultSupportURL
	}
	if reporter == nil {
		reporter = NewReporter(nil)
	}

	return &AnswerService{
		context:  kb.Assemble(ctx),
		ledger:   ledger,
		chat:     chat,
		config:   cfg,
		reporter: reporter,
	}, nil
}

// Context 返回启动时装配的上下文。
func (s *AnswerService) Context() *Context {
	return s.context
}

// Ledger 返回会话账本。
func (s *AnswerService) Ledger() *ConversationLedger {
	return s.ledger
}

// Answer 回答问题。失败时返回致歉文本而不是错误。
func (s *AnswerService) Answer(ctx context.Context, question, conversationID string) *Answer {
	knownBefore := conversationID != "" && s.ledger.Exists(conversationID)
	convID := s.ledger.GetOrCreate(conversationID)

	answer, noInfo, err := s.answer(ctx, convID, question)
	s.reporter.AnswerRecorded(noInfo, err)
	if err != nil {
		s.reporter.AnswerFailed(convID, err)
		if knownBefore {
			s.ledger.Append(conversationID, llm.RoleAssistant, ApologyAnswer)
		}
		return &Answer{Answer: ApologyAnswer, ConversationID: convID}
	}

	return &Answer{Answer: answer, ConversationID: convID}
}

func (s *AnswerService) answer(ctx context.Context, convID, question string) (string, bool, error) {
	if !s.ledger.Append(convID, llm.RoleUser, question) {
		return "", false, fmt.Errorf("conversation %s vanished", convID)
	}

	if s.context.Empty() {
		s.ledger.Append(convID, llm.RoleAssistant, NoInfoAnswer)
		return NoInfoAnswer, true, nil
	}

	history, _ := s.ledger.History(convID)
	// 排除刚追加的当前问题
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	prompt, err := renderPrompt(s.context, history, question, s.config.SupportURL, s.config.Limits)
	if err != nil {
		return "", false, fmt.Errorf("render prompt: %w", err)
	}

	start := time.Now()
	resp, err := s.chat.Generate(ctx, prompt, "")
	s.reporter.ModelCalled(time.Since(start), err)
	if err != nil {
		return "", false, fmt.Errorf("generate answer: %w", err)
	}

	answer := strings.TrimSpace(resp)
	s.ledger.Append(convID, llm.RoleAssistant, answer)
	logger.Debugw("Answer generated", "conversation_id", convID, "answer_chars", len(answer))
	return answer, false, nil
}

// ClearResult 批量清空会话的结果。
type ClearResult struct {
	Cleared  []string `json:"cleared"`
	NotFound []string `json:"not_found"`
}

// ClearConversations 清空指定会话，按输入顺序返回已清空与未找到的 ID。
func (s *AnswerService) ClearConversations(ids []string) *ClearResult {
	results := s.ledger.ClearMany(ids)

	out := &ClearResult{Cleared: []string{}, NotFound: []string{}}
	seen := make(map[string]bool, len(ids))
	for _, cid := range ids {
		if seen[cid] {
			continue
		}
		seen[cid] = true
		if results[cid] {
			out.Cleared = append(out.Cleared, cid)
		} else {
			out.NotFound = append(out.NotFound, cid)
		}
	}
	s.reporter.ConversationsCleared(len(out.Cleared))
	return out
}
