package storage

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
)

// MemoryStore is the in-process blob store used when MinIO is not configured.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemory() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.cache.Set(key, append([]byte(nil), data...), cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	x, found := s.cache.Get(key)
	if !found {
		return nil, fmt.Errorf("blob %s: %w", key, errs.ErrNotFound)
	}
	return append([]byte(nil), x.([]byte)...), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) Check(context.Context) error { return nil }
