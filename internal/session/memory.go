package session

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store used when no Redis address is configured.
type MemoryStore struct {
	mu      sync.Mutex
	tokens  map[string]string
	flashes map[string]Flash
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: map[string]string{}, flashes: map[string]Flash{}}
}

func (s *MemoryStore) Get(_ context.Context, sid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[sid]
	if !ok {
		return "", ErrNoToken
	}
	return tok, nil
}

func (s *MemoryStore) Set(_ context.Context, sid, token string) error {
	s.mu.Lock()
	s.tokens[sid] = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.tokens, sid)
	delete(s.flashes, sid)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SetFlash(_ context.Context, sid string, f Flash) error {
	s.mu.Lock()
	s.flashes[sid] = f
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) PopFlash(_ context.Context, sid string) (Flash, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flashes[sid]
	delete(s.flashes, sid)
	return f, ok, nil
}
