package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type quizState struct{ question string }

// ─── Set / Get ───────────────────────────────────────────────────────────────

func TestStore_SetGetDelete(t *testing.T) {
	s := NewStore[quizState]("test")
	k := Key{GroupID: 1, UserID: 2}

	if _, ok := s.Get(k); ok {
		t.Fatal("expected empty store")
	}
	s.Set(k, quizState{question: "q1"}, true)

	st, ok := s.Get(k)
	if !ok || st.Payload.question != "q1" || !st.Waiting {
		t.Fatalf("unexpected state: %+v ok=%v", st, ok)
	}
	if !s.Has(k) || !s.Waiting(k) {
		t.Error("expected Has and Waiting to be true")
	}

	s.Set(k, quizState{question: "q2"}, false)
	st, _ = s.Get(k)
	if st.Payload.question != "q2" || st.Waiting {
		t.Errorf("Set should replace unconditionally, got %+v", st)
	}

	s.Delete(k)
	s.Delete(k)
	if s.Has(k) {
		t.Error("expected key deleted")
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	s := NewStore[int]("test")
	s.Set(Key{GroupID: 1, UserID: 2}, 1, true)
	s.Set(Key{GroupID: 1, UserID: 3}, 2, true)
	s.Set(Key{GroupID: 0, UserID: 2}, 3, true)
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	s.Delete(Key{GroupID: 1, UserID: 2})
	if !s.Has(Key{GroupID: 1, UserID: 3}) || !s.Has(Key{GroupID: 0, UserID: 2}) {
		t.Error("deleting one key affected another")
	}
}

// ─── Sweep ───────────────────────────────────────────────────────────────────

func TestStore_SweepRemovesOnlyExpired(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[int]("test", WithTTL(5*time.Minute), WithClock(clock.Now))

	old := Key{GroupID: 1, UserID: 1}
	fresh := Key{GroupID: 1, UserID: 2}
	s.Set(old, 1, true)
	clock.Advance(3 * time.Minute)
	s.Set(fresh, 2, true)
	clock.Advance(2*time.Minute + time.Second)

	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if s.Has(old) {
		t.Error("expired entry survived sweep")
	}
	if !s.Has(fresh) {
		t.Error("fresh entry was swept")
	}
}

func TestStore_SetResetsCreationTime(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[int]("test", WithTTL(time.Minute), WithClock(clock.Now))
	k := Key{GroupID: 1, UserID: 1}

	s.Set(k, 1, true)
	clock.Advance(50 * time.Second)
	s.Set(k, 2, true)
	clock.Advance(50 * time.Second)

	if s.Sweep() != 0 || !s.Has(k) {
		t.Error("replaced entry should age from its new creation time")
	}
}

func TestStore_RunSweepsPeriodically(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[int]("test",
		WithTTL(time.Minute),
		WithSweepInterval(10*time.Millisecond),
		WithClock(clock.Now),
	)
	k := Key{GroupID: 7, UserID: 8}
	s.Set(k, 1, true)
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for s.Has(k) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	if s.Has(k) {
		t.Fatal("expired entry was not swept by Run")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore[int]("test")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := Key{GroupID: 1, UserID: int64(i % 5)}
			s.Set(k, i, true)
			s.Get(k)
			s.Sweep()
			if i%2 == 0 {
				s.Delete(k)
			}
		}(i)
	}
	wg.Wait()
	if s.Len() > 5 {
		t.Errorf("Len = %d, want <= 5", s.Len())
	}
}
