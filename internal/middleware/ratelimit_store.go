package middleware

import (
	"context"
	"sync"
	"time"
)

const defaultRateWindow = time.Minute

// RateStore counts hits for a key inside a fixed window.
type RateStore interface {
	// Increment records one hit and returns the hits so far and the time left in the window.
	Increment(ctx context.Context, key string, window time.Duration) (count int, ttl time.Duration, err error)
}

type rateWindow struct {
	hits    int
	expires time.Time
}

// memoryRateStore keeps windows in process memory. Closed windows are dropped whenever a key
// opens a new one, so the map never outgrows the set of recently active clients.
type memoryRateStore struct {
	mu   sync.Mutex
	data map[string]rateWindow
	now  func() time.Time
}

// NewMemoryRateStore returns a RateStore local to this process.
func NewMemoryRateStore() RateStore {
	return newMemoryRateStore(time.Now)
}

func newMemoryRateStore(now func() time.Time) *memoryRateStore {
	return &memoryRateStore{data: make(map[string]rateWindow), now: now}
}

func (s *memoryRateStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = defaultRateWindow
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[key]
	if !ok || now.After(current.expires) {
		for k, w := range s.data {
			if now.After(w.expires) {
				delete(s.data, k)
			}
		}
		current = rateWindow{expires: now.Add(window)}
	}
	current.hits++
	s.data[key] = current

	return current.hits, current.expires.Sub(now), nil
}
