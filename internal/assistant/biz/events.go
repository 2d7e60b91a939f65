package biz

import (
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/support-assistant/internal/assistant/metrics"
	apierrors "github.com/kart-io/support-assistant/pkg/utils/errors"
)

// Reporter 接收被吞掉的失败与知识库事件，记录日志并累计指标。
type Reporter struct {
	metrics *metrics.AssistantMetrics
}

// NewReporter 创建 Reporter。m 为 nil 时只记录日志。
func NewReporter(m *metrics.AssistantMetrics) *Reporter {
	return &Reporter{metrics: m}
}

// PageCrawled 页面抓取成功。
func (r *Reporter) PageCrawled(pageURL string, level, blocks int) {
	logger.Debugw("Page crawled", "url", pageURL, "level", level, "blocks", blocks)
	if r.metrics != nil {
		r.metrics.RecordPage(nil)
	}
}

// PageFailed 页面抓取失败，页面视为无内容。
func (r *Reporter) PageFailed(pageURL string, err error) {
	logger.Warnw("Failed to scrape page", "url", pageURL, "error", err.Error())
	if r.metrics != nil {
		r.metrics.RecordPage(err)
	}
}

// FileFailed 本地文件提取失败。
func (r *Reporter) FileFailed(path string, err error) {
	logger.Warnw("Failed to extract document", "file", path, "error", err.Error())
	if r.metrics != nil {
		r.metrics.RecordFileFailure()
	}
}

// IngestFailed 整体导入失败。
func (r *Reporter) IngestFailed(err error) {
	logger.Errorw("Error processing documents",
		"code", apierrors.ErrIngestFailed.Code,
		"error", apierrors.ErrIngestFailed.WithCause(err).Error(),
	)
}

// FallbackLoaded 兜底内容已写入存储。
func (r *Reporter) FallbackLoaded(added int) {
	logger.Warnw("Loaded fallback content", "chunks", added)
	if r.metrics != nil {
		r.metrics.RecordFallback()
		r.metrics.RecordChunksStored(added)
	}
}

// ContextFailed 加载上下文的某一部分失败。
func (r *Reporter) ContextFailed(part string, err error) {
	logger.Errorw("Error loading complete context", "part", part, "error", err.Error())
}

// ChunksStored 文本块写入存储。
func (r *Reporter) ChunksStored(n int) {
	if r.metrics != nil {
		r.metrics.RecordChunksStored(n)
	}
}

// AnswerFailed 回答生成失败，已返回致歉文本。
func (r *Reporter) AnswerFailed(conversationID string, err error) {
	logger.Errorw("Error occurred while generating answer",
		"conversation_id", conversationID,
		"code", apierrors.ErrAnswerFailed.Code,
		"error", err.Error(),
	)
}

// AnswerRecorded 记录一次回答结果。
func (r *Reporter) AnswerRecorded(noInfo bool, err error) {
	if r.metrics != nil {
		r.metrics.RecordAnswer(noInfo, err)
	}
}

// ModelCalled 记录一次模型调用。
func (r *Reporter) ModelCalled(duration time.Duration, err error) {
	logger.Debugw("Model call finished", "duration", duration.String(), "error", err != nil)
	if r.metrics != nil {
		r.metrics.RecordLLMCall(duration, err)
	}
}

// ConversationsCleared 记录被清空的会话数量。
func (r *Reporter) ConversationsCleared(n int) {
	if r.metrics != nil {
		r.metrics.RecordConversationsCleared(n)
	}
}
