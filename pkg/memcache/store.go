// pkg/memcache/store.go
package mem

import (
	"sync"
	"time"
)

// Store is a process-local key/value cache. Values are copied on the way in
// and out, so callers never share backing arrays.
type Store interface {
	// Set stores value under key. ttl <= 0 keeps the entry until deleted.
	Set(key string, value []byte, ttl time.Duration)

	// Get returns the value for key if present and not expired.
	Get(key string) ([]byte, bool)

	Delete(key string)

	Len() int
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *MemoryStore) Set(key string, value []byte, ttl time.Duration) {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
}

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		s.mu.Lock()
		if cur, ok := s.data[key]; ok && cur.expired(s.now()) {
			delete(s.data, key) // cleanup expired
		}
		s.mu.Unlock()
		return nil, false
	}
	return append([]byte(nil), e.value...), true
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Sweep drops expired entries and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}
