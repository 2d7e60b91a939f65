package id

import (
	"sort"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	v := NewUUID()
	require.Len(t, v, 36)
	assert.Equal(t, byte('4'), v[14])
	assert.True(t, IsValidUUID(v))
	assert.False(t, IsValidUUID("conversation-1"))
	assert.NotEqual(t, v, NewUUID())
}

func TestULIDGenerator_MonotonicAndConcurrent(t *testing.T) {
	gen := NewULIDGenerator()

	var (
		mu  sync.Mutex
		ids []string
		wg  sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				v := gen.Generate()
				mu.Lock()
				ids = append(ids, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, len(ids))
	for _, v := range ids {
		_, err := ulid.ParseStrict(v)
		require.NoError(t, err)
		seen[v] = struct{}{}
	}
	assert.Len(t, seen, 400)

	sequential := []string{gen.Generate(), gen.Generate(), gen.Generate()}
	assert.True(t, sort.StringsAreSorted(sequential))
}

func TestNewULID(t *testing.T) {
	assert.Len(t, NewULID(), 26)
}
