package store

import (
	"context"
	"sync"

	"github.com/kart-io/support-assistant/internal/pkg/textutil"
)

// MemoryStore 进程内存储，会话结束即丢失。
type MemoryStore struct {
	mu     sync.RWMutex
	chunks []string
	hashes map[string]struct{}
	local  string
}

var _ DocumentStore = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hashes: make(map[string]struct{})}
}

// Add 实现 DocumentStore。
func (s *MemoryStore) Add(_ context.Context, chunks []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, chunk := range chunks {
		h := textutil.HashString(chunk)
		if _, ok := s.hashes[h]; ok {
			continue
		}
		s.hashes[h] = struct{}{}
		s.chunks = append(s.chunks, chunk)
		added++
	}
	return added, nil
}

// Count 实现 DocumentStore。
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Query 实现 DocumentStore。
func (s *MemoryStore) Query(_ context.Context, _ string, n int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return nil, nil
	}
	n = min(n, len(s.chunks))
	out := make([]string, n)
	copy(out, s.chunks[:n])
	return out, nil
}

// SetLocalDocuments 实现 DocumentStore。
func (s *MemoryStore) SetLocalDocuments(_ context.Context, text string) error {
	s.mu.Lock()
	s.local = text
	s.mu.Unlock()
	return nil
}

// LocalDocuments 实现 DocumentStore。
func (s *MemoryStore) LocalDocuments(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local, nil
}

// Backend 实现 DocumentStore。
func (s *MemoryStore) Backend() string {
	return BackendMemory
}
