// Package handler provides HTTP handlers for the support assistant.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/internal/assistant/biz"
	"github.com/kart-io/support-assistant/internal/assistant/metrics"
	"github.com/kart-io/support-assistant/internal/assistant/store"
	apierrors "github.com/kart-io/support-assistant/pkg/utils/errors"
	"github.com/kart-io/support-assistant/pkg/utils/response"
	"github.com/kart-io/support-assistant/pkg/validator"
)

// metricsNamespace 指标导出命名空间。
const metricsNamespace = "support_assistant"

// AssistantHandler handles support assistant HTTP requests.
type AssistantHandler struct {
	service *biz.AnswerService
	store   store.DocumentStore
	metrics *metrics.AssistantMetrics
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(service *biz.AnswerService, s store.DocumentStore, m *metrics.AssistantMetrics) *AssistantHandler {
	if m == nil {
		m = metrics.New()
	}
	return &AssistantHandler{
		service: service,
		store:   s,
		metrics: m,
	}
}

// AnswerRequest represents a question request.
type AnswerRequest struct {
	Question       string `json:"question" validate:"notblank"`
	ConversationID string `json:"conversation_id"`
}

// ClearRequest represents a clear conversation request.
type ClearRequest struct {
	ConversationIDs []string `json:"conversation_ids"`
	// ConversationID 单个会话 ID，未在列表中时合并进去
	ConversationID string `json:"conversation_id"`
}

// IDs 合并单数与列表形式的会话 ID，过滤空值。
func (r *ClearRequest) IDs() []string {
	ids := make([]string, 0, len(r.ConversationIDs)+1)
	present := false
	for _, id := range r.ConversationIDs {
		if id == "" {
			continue
		}
		if id == r.ConversationID {
			present = true
		}
		ids = append(ids, id)
	}
	if r.ConversationID != "" && !present {
		ids = append(ids, r.ConversationID)
	}
	return ids
}

// ClearResponse is returned when at least one conversation was cleared.
type ClearResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Details *biz.ClearResult `json:"details"`
}

// Answer answers a customer question within a conversation.
func (h *AssistantHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apierrors.ErrInvalidAnswerBody.WithCause(err))
		return
	}
	if verrs := validator.Struct(&req); verrs != nil {
		response.Fail(c, apierrors.ErrEmptyQuestion.WithCause(verrs))
		return
	}

	// 模型错误已在业务层转为致歉回答，这里始终返回 200
	c.JSON(http.StatusOK, h.service.Answer(c.Request.Context(), req.Question, req.ConversationID))
}

// Clear clears one or more conversations.
func (h *AssistantHandler) Clear(c *gin.Context) {
	var req ClearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apierrors.ErrInvalidClearRequest.WithCause(err))
		return
	}

	ids := req.IDs()
	if len(ids) == 0 {
		response.Fail(c, apierrors.ErrNoConversationIDs)
		return
	}

	result := h.service.ClearConversations(ids)
	if len(result.Cleared) == 0 {
		response.FailWithData(c, apierrors.ErrConversationNotFound, result)
		return
	}

	logger.Infow("conversations cleared",
		"cleared", len(result.Cleared),
		"not_found", len(result.NotFound),
	)
	c.JSON(http.StatusOK, ClearResponse{
		Status:  "success",
		Message: "Conversation history cleared successfully",
		Details: result,
	})
}

// Health reports liveness.
func (h *AssistantHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Stats returns document and service counters.
func (h *AssistantHandler) Stats(c *gin.Context) {
	documents, err := h.store.Count(c.Request.Context())
	if err != nil {
		logger.Warnw("failed to count documents", "error", err.Error())
		response.Fail(c, apierrors.ErrStatsUnavailable.WithCause(err))
		return
	}

	kc := h.service.Context()
	response.OK(c, gin.H{
		"documents": gin.H{
			"chunks":          documents,
			"backend":         h.store.Backend(),
			"local_chars":     len(kc.Documents),
			"web_chars":       len(kc.Web),
			"context_present": !kc.Empty(),
		},
		"conversations": h.service.Ledger().Len(),
		"metrics":       h.metrics.Stats(),
	})
}

// Metrics exports counters in Prometheus text format.
func (h *AssistantHandler) Metrics(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8",
		[]byte(h.metrics.Export(metricsNamespace, "")))
}
