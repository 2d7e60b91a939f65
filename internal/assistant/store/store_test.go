package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test:docs:")
}

func stores(t *testing.T) map[string]DocumentStore {
	return map[string]DocumentStore{
		BackendMemory: NewMemoryStore(),
		BackendRedis:  newRedisTestStore(t),
	}
}

func TestDocumentStore_AddDedupes(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			added, err := s.Add(ctx, []string{"a", "b", "a"})
			require.NoError(t, err)
			assert.Equal(t, 2, added)

			added, err = s.Add(ctx, []string{"b", "c"})
			require.NoError(t, err)
			assert.Equal(t, 1, added)

			count, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, count)
		})
	}
}

func TestDocumentStore_QueryKeepsOrder(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.Add(ctx, []string{"first", "second", "third"})
			require.NoError(t, err)

			all, err := s.Query(ctx, "all", 3)
			require.NoError(t, err)
			assert.Equal(t, []string{"first", "second", "third"}, all)

			some, err := s.Query(ctx, "all", 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"first", "second"}, some)

			more, err := s.Query(ctx, "all", 10)
			require.NoError(t, err)
			assert.Len(t, more, 3)

			none, err := s.Query(ctx, "all", 0)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestDocumentStore_LocalDocuments(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			text, err := s.LocalDocuments(ctx)
			require.NoError(t, err)
			assert.Empty(t, text)

			require.NoError(t, s.SetLocalDocuments(ctx, "old"))
			require.NoError(t, s.SetLocalDocuments(ctx, "new"))

			text, err = s.LocalDocuments(ctx)
			require.NoError(t, err)
			assert.Equal(t, "new", text)
			assert.Equal(t, name, s.Backend())
		})
	}
}

func TestRedisStore_SharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	c1 := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	c2 := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer c1.Close()
	defer c2.Close()

	ctx := context.Background()
	_, err := NewRedisStore(c1, "").Add(ctx, []string{"chunk"})
	require.NoError(t, err)

	count, err := NewRedisStore(c2, "").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, mr.Exists(DefaultKeyPrefix+"chunks"))
}

func TestNew(t *testing.T) {
	s, err := New("", nil, "")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, s.Backend())

	_, err = New(BackendRedis, nil, "")
	assert.Error(t, err)

	_, err = New("etcd", nil, "")
	assert.Error(t, err)
}
