package store

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/support-assistant/internal/pkg/textutil"
)

// DefaultKeyPrefix Redis 键前缀默认值。
const DefaultKeyPrefix = "support:docs:"

// addChunk 仅当哈希首次出现时追加文本块，保证去重与追加的原子性。
var addChunk = goredis.NewScript(`
if redis.call("SADD", KEYS[1], ARGV[1]) == 1 then
	redis.call("RPUSH", KEYS[2], ARGV[2])
	return 1
end
return 0
`)

// RedisStore 基于 Redis 的存储：list 保存文本块，set 保存内容哈希，string 保存本地文档。
type RedisStore struct {
	client    goredis.UniversalClient
	chunksKey string
	hashesKey string
	localKey  string
}

var _ DocumentStore = (*RedisStore)(nil)

// NewRedisStore 创建 Redis 存储。
func NewRedisStore(client goredis.UniversalClient, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisStore{
		client:    client,
		chunksKey: keyPrefix + "chunks",
		hashesKey: keyPrefix + "hashes",
		localKey:  keyPrefix + "local",
	}
}

// Add 实现 DocumentStore。
func (s *RedisStore) Add(ctx context.Context, chunks []string) (int, error) {
	added := 0
	for _, chunk := range chunks {
		n, err := addChunk.Run(ctx, s.client,
			[]string{s.hashesKey, s.chunksKey},
			textutil.HashString(chunk), chunk,
		).Int()
		if err != nil {
			return added, fmt.Errorf("redis add chunk: %w", err)
		}
		added += n
	}
	return added, nil
}

// Count 实现 DocumentStore。
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, s.chunksKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count: %w", err)
	}
	return int(n), nil
}

// Query 实现 DocumentStore。
func (s *RedisStore) Query(ctx context.Context, _ string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	chunks, err := s.client.LRange(ctx, s.chunksKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis query: %w", err)
	}
	return chunks, nil
}

// SetLocalDocuments 实现 DocumentStore。
func (s *RedisStore) SetLocalDocuments(ctx context.Context, text string) error {
	if err := s.client.Set(ctx, s.localKey, text, 0).Err(); err != nil {
		return fmt.Errorf("redis set local documents: %w", err)
	}
	return nil
}

// LocalDocuments 实现 DocumentStore。
func (s *RedisStore) LocalDocuments(ctx context.Context) (string, error) {
	text, err := s.client.Get(ctx, s.localKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get local documents: %w", err)
	}
	return text, nil
}

// Backend 实现 DocumentStore。
func (s *RedisStore) Backend() string {
	return BackendRedis
}
