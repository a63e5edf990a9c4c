package storage

import (
	"sync"

	"github.com/julianstephens/habitual/internal/constants"
)

// MemoryStore keeps entries in a process-local map. Nothing survives Close.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string][]byte)
	}
	return nil
}

func (s *MemoryStore) Load() error {
	return s.Init()
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return nil, ErrNotLoaded
	}
	v, ok := s.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries == nil {
		return ErrNotLoaded
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.entries[key] = v
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return constants.MemoryConfigPath
}
