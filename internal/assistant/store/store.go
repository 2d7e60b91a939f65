// Package store 提供知识库文本块的存储实现（内存与 Redis）。
package store

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

// 存储后端名称。
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DocumentStore 定义文本块存储接口。
//
// 文本块按插入顺序保存，并以内容哈希去重；另保存一份可覆盖的本地文档文本。
type DocumentStore interface {
	// Add 追加尚未存在的文本块，返回实际新增数量。
	Add(ctx context.Context, chunks []string) (int, error)

	// Count 返回文本块数量。
	Count(ctx context.Context) (int, error)

	// Query 按插入顺序返回前 n 个文本块。query 仅为占位，不参与检索。
	Query(ctx context.Context, query string, n int) ([]string, error)

	// SetLocalDocuments 覆盖本地文档文本。
	SetLocalDocuments(ctx context.Context, text string) error

	// LocalDocuments 返回本地文档文本。
	LocalDocuments(ctx context.Context) (string, error)

	// Backend 返回后端名称。
	Backend() string
}

// New 按后端名称创建存储。redis 后端需要可用的客户端。
func New(backend string, client goredis.UniversalClient, keyPrefix string) (DocumentStore, error) {
	switch strings.ToLower(backend) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("redis store requires a client")
		}
		return NewRedisStore(client, keyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
