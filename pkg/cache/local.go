package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// localStore is the bounded in-process fallback used when the shared store is
// unreachable. Entries expire after a TTL; when full, the least recently used
// entry is evicted.
type localStore struct {
	mu      sync.RWMutex
	entries map[string]*localEntry
	maxSize int
}

type localEntry struct {
	payload    json.RawMessage
	expiresAt  time.Time
	lastAccess time.Time
}

func newLocalStore(maxSize int) *localStore {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &localStore{
		entries: make(map[string]*localEntry),
		maxSize: maxSize,
	}
}

// Get retrieves a payload, reporting a miss for expired entries.
func (s *localStore) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}

	entry.lastAccess = time.Now()
	return entry.payload, true
}

// Set stores a payload, evicting the least recently used entry when full.
func (s *localStore) Set(key string, payload json.RawMessage, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxSize {
		s.evictLRU()
	}

	now := time.Now()
	s.entries[key] = &localEntry{
		payload:    payload,
		expiresAt:  now.Add(ttl),
		lastAccess: now,
	}
}

// Len returns the current occupancy, counting expired-but-unevicted entries.
func (s *localStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictLRU removes the least recently used entry. Caller holds the lock.
func (s *localStore) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range s.entries {
		if oldestKey == "" || entry.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccess
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}
