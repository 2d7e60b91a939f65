// Package metrics 提供客服助手服务的业务指标收集。
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// AssistantMetrics 客服助手业务指标。
type AssistantMetrics struct {
	// 问答指标
	answersTotal  atomic.Uint64 // 总回答次数
	answersNoInfo atomic.Uint64 // 无上下文直接回答次数
	answersErrors atomic.Uint64 // 回答失败次数

	// 模型调用指标
	llmCallsTotal    atomic.Uint64
	llmCallsErrors   atomic.Uint64
	llmCallsDuration float64 // 模型调用总耗时（秒）

	// 知识库指标
	pagesCrawled   atomic.Uint64 // 成功抓取页面数
	pagesFailed    atomic.Uint64 // 抓取失败页面数
	filesFailed    atomic.Uint64 // 本地文件提取失败数
	chunksStored   atomic.Uint64 // 写入存储的文本块数
	fallbackLoaded atomic.Uint64 // 兜底内容写入次数

	// 会话指标
	conversationsCleared atomic.Uint64

	durationMu sync.Mutex
	startTime  time.Time
}

// New 创建指标实例。
func New() *AssistantMetrics {
	return &AssistantMetrics{startTime: time.Now()}
}

// RecordAnswer 记录一次回答。noInfo 表示未调用模型直接返回。
func (m *AssistantMetrics) RecordAnswer(noInfo bool, err error) {
	m.answersTotal.Add(1)
	if err != nil {
		m.answersErrors.Add(1)
		return
	}
	if noInfo {
		m.answersNoInfo.Add(1)
	}
}

// RecordLLMCall 记录模型调用。
func (m *AssistantMetrics) RecordLLMCall(duration time.Duration, err error) {
	m.llmCallsTotal.Add(1)
	if err != nil {
		m.llmCallsErrors.Add(1)
		return
	}
	m.durationMu.Lock()
	m.llmCallsDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordPage 记录页面抓取结果。
func (m *AssistantMetrics) RecordPage(err error) {
	if err != nil {
		m.pagesFailed.Add(1)
		return
	}
	m.pagesCrawled.Add(1)
}

// RecordFileFailure 记录本地文件提取失败。
func (m *AssistantMetrics) RecordFileFailure() {
	m.filesFailed.Add(1)
}

// RecordChunksStored 记录写入的文本块数量。
func (m *AssistantMetrics) RecordChunksStored(n int) {
	if n > 0 {
		m.chunksStored.Add(uint64(n))
	}
}

// RecordFallback 记录兜底内容写入。
func (m *AssistantMetrics) RecordFallback() {
	m.fallbackLoaded.Add(1)
}

// RecordConversationsCleared 记录被清空的会话数量。
func (m *AssistantMetrics) RecordConversationsCleared(n int) {
	if n > 0 {
		m.conversationsCleared.Add(uint64(n))
	}
}

// Stats 返回当前统计信息（用于 API）。
func (m *AssistantMetrics) Stats() map[string]interface{} {
	m.durationMu.Lock()
	llmDuration := m.llmCallsDuration
	m.durationMu.Unlock()

	llmTotal := m.llmCallsTotal.Load()
	avgLLMDuration := 0.0
	if llmTotal > 0 {
		avgLLMDuration = llmDuration / float64(llmTotal)
	}

	return map[string]interface{}{
		"answers": map[string]interface{}{
			"total":   m.answersTotal.Load(),
			"no_info": m.answersNoInfo.Load(),
			"errors":  m.answersErrors.Load(),
		},
		"llm": map[string]interface{}{
			"calls_total":         llmTotal,
			"errors":              m.llmCallsErrors.Load(),
			"total_duration_secs": llmDuration,
			"avg_duration_secs":   avgLLMDuration,
		},
		"knowledge": map[string]interface{}{
			"pages_crawled":   m.pagesCrawled.Load(),
			"pages_failed":    m.pagesFailed.Load(),
			"files_failed":    m.filesFailed.Load(),
			"chunks_stored":   m.chunksStored.Load(),
			"fallback_loaded": m.fallbackLoaded.Load(),
		},
		"conversations": map[string]interface{}{
			"cleared": m.conversationsCleared.Load(),
		},
		"uptime_seconds": time.Since(m.startTime).Seconds(),
	}
}

// Export 导出 Prometheus 文本格式指标。
func (m *AssistantMetrics) Export(namespace, subsystem string) string {
	prefix := namespace
	if subsystem != "" {
		prefix = prefix + "_" + subsystem
	}

	m.durationMu.Lock()
	llmDuration := m.llmCallsDuration
	m.durationMu.Unlock()

	var sb strings.Builder
	writeMetric := func(name, help, kind string, value interface{}) {
		sb.WriteString(fmt.Sprintf("# HELP %s_%s %s\n", prefix, name, help))
		sb.WriteString(fmt.Sprintf("# TYPE %s_%s %s\n", prefix, name, kind))
		sb.WriteString(fmt.Sprintf("%s_%s %v\n\n", prefix, name, value))
	}

	writeMetric("answers_total", "Total number of answered questions.", "counter", m.answersTotal.Load())
	writeMetric("answers_no_info_total", "Answers returned without calling the model.", "counter", m.answersNoInfo.Load())
	writeMetric("answers_errors_total", "Answers that fell back to the apology.", "counter", m.answersErrors.Load())
	writeMetric("llm_calls_total", "Total number of model calls.", "counter", m.llmCallsTotal.Load())
	writeMetric("llm_calls_errors_total", "Number of failed model calls.", "counter", m.llmCallsErrors.Load())
	writeMetric("llm_calls_duration_seconds_total", "Total model call duration.", "counter", fmt.Sprintf("%.6f", llmDuration))
	writeMetric("pages_crawled_total", "Pages fetched by the crawler.", "counter", m.pagesCrawled.Load())
	writeMetric("pages_failed_total", "Pages the crawler failed to fetch.", "counter", m.pagesFailed.Load())
	writeMetric("files_failed_total", "Local documents that failed to extract.", "counter", m.filesFailed.Load())
	writeMetric("chunks_stored_total", "Text chunks written to the store.", "counter", m.chunksStored.Load())
	writeMetric("fallback_loaded_total", "Times fallback content was loaded.", "counter", m.fallbackLoaded.Load())
	writeMetric("conversations_cleared_total", "Conversations emptied on request.", "counter", m.conversationsCleared.Load())
	writeMetric("uptime_seconds", "Service uptime in seconds.", "gauge", fmt.Sprintf("%.2f", time.Since(m.startTime).Seconds()))

	return sb.String()
}
