// Package events tracks which inbound webhook events have already been handled.
package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a handled event id is remembered. Meta stops
// redelivering well within a day.
const DefaultTTL = 24 * time.Hour

// ProcessedStore records webhook events that were already handled.
type ProcessedStore interface {
	// MarkProcessed records the event id, returning false if it already existed.
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

// RedisProcessedStore keeps event ids as expiring redis keys.
type RedisProcessedStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisProcessedStore(client redis.UniversalClient, ttl time.Duration) *RedisProcessedStore {
	if client == nil {
		panic("events: redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisProcessedStore{client: client, ttl: ttl, prefix: "processed"}
}

func (s *RedisProcessedStore) MarkProcessed(ctx context.Context, provider, eventID string) (bool, error) {
	if strings.TrimSpace(eventID) == "" {
		return true, nil
	}
	ok, err := s.client.SetNX(ctx, s.key(provider, eventID), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("events: mark processed: %w", err)
	}
	return ok, nil
}

func (s *RedisProcessedStore) key(provider, eventID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, provider, eventID)
}

// MemoryProcessedStore is the single-process fallback used when redis is not configured.
type MemoryProcessedStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryProcessedStore(ttl time.Duration) *MemoryProcessedStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryProcessedStore{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryProcessedStore) MarkProcessed(_ context.Context, provider, eventID string) (bool, error) {
	if strings.TrimSpace(eventID) == "" {
		return true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evictLocked(now)
	key := provider + ":" + eventID
	if expires, ok := s.seen[key]; ok && now.Before(expires) {
		return false, nil
	}
	s.seen[key] = now.Add(s.ttl)
	return true, nil
}

func (s *MemoryProcessedStore) evictLocked(now time.Time) {
	for key, expires := range s.seen {
		if !now.Before(expires) {
			delete(s.seen, key)
		}
	}
}

