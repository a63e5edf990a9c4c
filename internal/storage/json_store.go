package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/habitual/internal/constants"
)

type Store struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

type JSONStore struct {
	mu    sync.Mutex
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reinitializing keeps existing entries
	if _, err := os.Stat(s.path); err == nil {
		return s.loadLocked()
	}

	s.store = &Store{
		Version: constants.StoreVersion,
		Entries: make(map[string]json.RawMessage),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *JSONStore) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	store := &Store{}
	if err := json.Unmarshal(data, store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if store.Version > constants.StoreVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade the application", store.Version, constants.StoreVersion)
	}

	// Ensure map is initialized
	if store.Entries == nil {
		store.Entries = make(map[string]json.RawMessage)
	}

	s.store = store
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write to a sibling file and rename so a crash never leaves a torn document
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, ErrNotLoaded
	}

	raw, ok := s.store.Entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *JSONStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return ErrNotLoaded
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}

	raw := make(json.RawMessage, len(value))
	copy(raw, value)

	prev, had := s.store.Entries[key]
	s.store.Entries[key] = raw
	if err := s.save(); err != nil {
		// Keep the cached document in sync with what is on disk
		if had {
			s.store.Entries[key] = prev
		} else {
			delete(s.store.Entries, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
