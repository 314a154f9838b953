package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCache_SetGetExpire(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	c := New[int](time.Minute)
	c.Now = func() time.Time { return now }

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected 1, got %d (ok=%v)", v, ok)
	}

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry should still be live before ttl")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should expire at ttl")
	}
}

func TestCache_ClearAndDelete(t *testing.T) {
	c := New[string](time.Hour)
	c.Set("a", "x")
	c.Set("b", "y")
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d entries", c.Len())
	}
}

func TestCache_ZeroTTLDisables(t *testing.T) {
	c := New[int](0)
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Error("zero ttl should not store values")
	}
}

func TestCache_GetOrLoadSharesInflight(t *testing.T) {
	c := New[int](time.Minute)
	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})

	load := func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
		}
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrLoad(context.Background(), "snap", load)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}
	<-entered
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected a single load, got %d", n)
	}
	for i, v := range results {
		if v != 42 {
			t.Errorf("caller %d got %d", i, v)
		}
	}
}

func TestCache_GetOrLoadErrorNotCached(t *testing.T) {
	c := New[int](time.Minute)
	boom := errors.New("boom")
	_, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Errorf("expected reload to 7, got %d, %v", v, err)
	}
}
