package conversation

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore is a bounded in-process SessionStore. Entries never expire; a flow ends only when it completes.
type MemoryStore struct {
	cache *lru.Cache[int64, Session]
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	cache, err := lru.New[int64, Session](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (Session, error) {
	session, ok := s.cache.Get(userID)
	if !ok {
		return Session{}, ErrNoSession
	}
	return session, nil
}

func (s *MemoryStore) Save(_ context.Context, userID int64, session Session) error {
	s.cache.Add(userID, session)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.cache.Remove(userID)
	return nil
}
