package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = 60 * time.Second
)

// Store holds at most one State per Key. All operations, including the sweep,
// share one lock.
type Store[T any] struct {
	name     string
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[Key]State[T]
}

// Option customizes a Store.
type Option func(*config)

type config struct {
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// WithTTL sets how old an entry may get before the sweep removes it.
func WithTTL(d time.Duration) Option { return func(c *config) { c.ttl = d } }

// WithSweepInterval sets how often Run sweeps.
func WithSweepInterval(d time.Duration) Option { return func(c *config) { c.interval = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(c *config) { c.now = now } }

// NewStore creates an empty store. name only labels log lines.
func NewStore[T any](name string, opts ...Option) *Store[T] {
	c := config{ttl: DefaultTTL, interval: DefaultSweepInterval, now: time.Now}
	for _, o := range opts {
		o(&c)
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.interval <= 0 {
		c.interval = DefaultSweepInterval
	}
	return &Store[T]{
		name:     name,
		ttl:      c.ttl,
		interval: c.interval,
		now:      c.now,
		entries:  make(map[Key]State[T]),
	}
}

func (s *Store[T]) TTL() time.Duration           { return s.ttl }
func (s *Store[T]) SweepInterval() time.Duration { return s.interval }

// Set stores payload under key, replacing any existing entry and resetting
// its creation time.
func (s *Store[T]) Set(key Key, payload T, waiting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = State[T]{Payload: payload, Waiting: waiting, CreatedAt: s.now()}
}

func (s *Store[T]) Get(key Key) (State[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[key]
	return st, ok
}

func (s *Store[T]) Has(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Waiting reports whether key holds an entry awaiting input.
func (s *Store[T]) Waiting(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[key]
	return ok && st.Waiting
}

// Delete removes key; absent keys are a no-op.
func (s *Store[T]) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes entries older than the TTL and returns how many it removed.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for k, st := range s.entries {
		if st.Age(now) > s.ttl {
			delete(s.entries, k)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("session: swept expired entries", "store", s.name, "removed", removed)
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (s *Store[T]) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("session: sweeper started", "store", s.name, "ttl", s.ttl, "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			slog.Info("session: sweeper stopped", "store", s.name)
			return ctx.Err()
		}
	}
}
