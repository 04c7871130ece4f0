package service

import (
	"context"
	"sync"
	"time"
)

// ProviderUsageStore tracks AI provider attempts per UTC day in process memory.
// It is used when Redis is not configured; counts reset on restart.
type ProviderUsageStore struct {
	mu     sync.RWMutex
	counts map[string]int // Key: provider:YYYY-MM-DD
	now    func() time.Time
}

func NewProviderUsageStore() *ProviderUsageStore {
	return &ProviderUsageStore{
		counts: make(map[string]int),
		now:    time.Now,
	}
}

func (s *ProviderUsageStore) GetDailyUsage(ctx context.Context, provider string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[s.makeKey(provider)], nil
}

func (s *ProviderUsageStore) AddDailyUsage(ctx context.Context, provider string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.makeKey(provider)
	s.counts[key] += n
	s.prune(key)
	return nil
}

// prune drops counters from previous days. Caller holds the write lock.
func (s *ProviderUsageStore) prune(current string) {
	suffix := current[len(current)-len("2006-01-02"):]
	for k := range s.counts {
		if k[len(k)-len(suffix):] != suffix {
			delete(s.counts, k)
		}
	}
}

func (s *ProviderUsageStore) makeKey(provider string) string {
	return provider + ":" + s.now().UTC().Format("2006-01-02")
}
