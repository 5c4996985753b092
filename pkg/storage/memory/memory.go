// Package memory is an in-process content-addressed store for tests and dry runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/roboricindustries/raycon-notify/pkg/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) Put(ctx context.Context, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	addr := storage.Address(payload)
	s.mu.Lock()
	s.objects[addr] = slices.Clone(payload)
	s.mu.Unlock()
	return addr, nil
}

func (s *Store) Get(ctx context.Context, pointer string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[pointer]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return slices.Clone(b), nil
}

// Len is the number of distinct objects stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
