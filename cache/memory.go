package cache

import (
	"maps"
	"slices"
	"sync"
)

// InMemoryStore is a thread-safe, process-local Store. Entries are never
// evicted; its size is bounded by the language/namespace pairs in use.
type InMemoryStore struct {
	entries map[string]map[string]string
	mu      sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]map[string]string),
	}
}

// Get retrieves a mapping from the store.
func (s *InMemoryStore) Get(collection string) (map[string]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	translations, ok := s.entries[collection]
	return translations, ok
}

// Set stores a mapping. A nil mapping is stored as an empty one.
func (s *InMemoryStore) Set(collection string, translations map[string]string) error {
	if translations == nil {
		translations = map[string]string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[collection] = translations
	return nil
}

// Collections returns the stored collection names in sorted order.
func (s *InMemoryStore) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.entries))
}

// Len returns the number of stored collections.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes all entries.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]map[string]string)
}

// Entries returns a deep copy of every stored mapping.
func (s *InMemoryStore) Entries() map[string]map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]map[string]string, len(s.entries))
	for collection, translations := range s.entries {
		result[collection] = maps.Clone(translations)
	}
	return result
}

// Verify InMemoryStore implements Store
var _ Store = (*InMemoryStore)(nil)
