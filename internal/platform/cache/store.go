package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/football-query/internal/platform/resilience"
)

// DefaultTTL is how long a stored response stays fresh.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
}

// Observer receives cache events; metrics implement it.
type Observer interface {
	CacheHit()
	CacheMiss()
	CacheEvicted(n int)
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// WithLifetime bounds every loader run by GetOrLoad to ctx, typically the
// process context cancelled on shutdown.
func WithLifetime(ctx context.Context) Option {
	return func(s *Store) {
		if ctx != nil {
			s.lifetime = ctx
		}
	}
}

// Store is an in-memory TTL map. An entry is fresh while
// now - storedAt <= ttl; a ttl <= 0 never expires.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	ttl      time.Duration
	now      func() time.Time
	flight   resilience.SingleFlight
	observer Observer
	lifetime context.Context
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		lifetime: context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.storedAt) > s.ttl
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		s.miss()
		return nil, false
	}
	if s.expired(e, now) {
		s.mu.Lock()
		// another writer may have refreshed the key in between
		if current, still := s.entries[key]; still && s.expired(current, now) {
			delete(s.entries, key)
			s.evicted(1)
		}
		s.mu.Unlock()
		s.miss()
		return nil, false
	}

	s.hit()
	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:    value,
		storedAt: s.now(),
	}
	s.mu.Unlock()
}

// Delete drops key and detaches any load in flight for it, so the next
// GetOrLoad starts a fresh load instead of joining the old one.
func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()
	s.flight.Forget(key)
	if ok {
		s.evicted(1)
	}
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]entry)
	s.mu.Unlock()
	s.evicted(n)
}

// Len counts stored entries, expired ones included until they are swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	now := s.now()
	removed := 0
	s.mu.Lock()
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()
	s.evicted(removed)
	return removed
}

// StartJanitor sweeps every interval until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// GetOrLoad returns the fresh value for key or runs loader once for all
// concurrent callers of the same key. Errors are not cached.
//
// The loader is shared, so it does not stop when the first caller gives up:
// it keeps ctx values (trace, request id) but is cancelled only by the store
// lifetime. Callers stop waiting on their own ctx.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.DoContext(ctx, key, func() (any, error) {
		if cached, ok := s.peek(key); ok {
			return cached, nil
		}

		loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(s.lifetime, cancel)
		defer stop()

		loaded, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// peek reads without touching the observer.
func (s *Store) peek(key string) (any, bool) {
	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.expired(e, now) {
		return nil, false
	}
	return e.value, true
}

func (s *Store) hit() {
	if s.observer != nil {
		s.observer.CacheHit()
	}
}

func (s *Store) miss() {
	if s.observer != nil {
		s.observer.CacheMiss()
	}
}

func (s *Store) evicted(n int) {
	if s.observer != nil && n > 0 {
		s.observer.CacheEvicted(n)
	}
}
