package errors

// 客服助手服务错误码: 21
var (
	// 请求参数错误 (类别 01)
	ErrEmptyQuestion       = NewRequestErr(ServiceAssistant, 1, "Question cannot be empty", "问题不能为空")
	ErrNoConversationIDs   = NewRequestErr(ServiceAssistant, 2, "No conversation ids provided", "未提供会话 ID")
	ErrInvalidAnswerBody   = NewRequestErr(ServiceAssistant, 3, "Invalid answer request body", "问答请求体无效")
	ErrInvalidClearRequest = NewRequestErr(ServiceAssistant, 4, "Invalid clear request body", "清理请求体无效")

	// 资源错误 (类别 04)
	ErrConversationNotFound = NewNotFoundErr(ServiceAssistant, 1, "Conversation not found", "会话不存在")

	// 内部错误 (类别 07)
	ErrAnswerFailed     = NewInternalErr(ServiceAssistant, 1, "Answer generation failed", "回答生成失败")
	ErrIngestFailed     = NewInternalErr(ServiceAssistant, 2, "Knowledge ingestion failed", "知识库导入失败")
	ErrStatsUnavailable = NewInternalErr(ServiceAssistant, 3, "Statistics unavailable", "统计信息不可用")
	ErrStoreUnavailable = NewCacheErr(ServiceAssistant, 1, "Document store unavailable", "文档存储不可用")
	ErrModelUnavailable = NewNetworkErr(ServiceAssistant, 1, "Generative model unavailable", "生成模型不可用")
)
