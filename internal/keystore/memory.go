package keystore

import (
	"context"
	"sync"

	"github.com/asgsolar/luxclient/internal/domain"
)

// MemoryStore holds the slot in memory only. It exists for embedding
// hosts that manage persistence themselves and for tests.
type MemoryStore struct {
	mu    sync.Mutex
	token *domain.AuthToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, token domain.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := token
	s.token = &t
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (*domain.AuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil, nil
	}
	t := *s.token
	return &t, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}
