package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "localhost:8080/movies?year=1999", Key("localhost:8080", "/movies?year=1999"))
	assert.NotEqual(t, Key("h", "/movies"), Key("h", "/movies?year=1999"))
}

func TestSetGet_RoundTrip(t *testing.T) {
	c := New()

	_, ok := c.Get("h/movies")
	assert.False(t, ok)

	c.Set("h/movies", []byte(`{"rows":[]}`))
	got, ok := c.Get("h/movies")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"rows":[]}`), got)
}

func TestSet_CopiesPayload(t *testing.T) {
	c := New()
	buf := []byte("abc")
	c.Set("k", buf)
	buf[0] = 'X'

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}

func TestGet_ReturnsCopy(t *testing.T) {
	c := New()
	c.Set("k", []byte("abc"))

	got, ok := c.Get("k")
	require.True(t, ok)
	got[0] = 'X'

	again, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(again))
}

func TestSet_OverwritesAndRestartsTTL(t *testing.T) {
	clock := newClock()
	c := New(WithClock(clock.Now), WithTTL(time.Hour))

	c.Set("k", []byte("v1"))
	clock.Advance(50 * time.Minute)
	c.Set("k", []byte("v2"))
	clock.Advance(50 * time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", string(got))
}

func TestInvalidate_Precision(t *testing.T) {
	c := New()
	for _, k := range []string{
		"h/movies",
		"h/movies/5",
		"h/movies/6",
		"h/movies?year=1999",
		"h/movies/5/reviews",
	} {
		c.Set(k, []byte(k))
	}

	c.Invalidate("h/movies", "5")

	for k, want := range map[string]bool{
		"h/movies":           false,
		"h/movies/5":         false,
		"h/movies/6":         true,
		"h/movies?year=1999": true,
		"h/movies/5/reviews": true,
	} {
		_, ok := c.Get(k)
		assert.Equal(t, want, ok, k)
	}
}

func TestInvalidate_CollectionOnly(t *testing.T) {
	c := New()
	c.Set("h/movies", []byte("list"))
	c.Set("h/movies/", []byte("odd"))

	c.Invalidate("h/movies", "")

	_, ok := c.Get("h/movies")
	assert.False(t, ok)
	_, ok = c.Get("h/movies/")
	assert.True(t, ok, "empty item id must not remove base+\"/\"")
}

func TestInvalidate_AbsentKeysIsNoop(t *testing.T) {
	c := New()
	assert.NotPanics(t, func() { c.Invalidate("nothing", "here") })
}

func TestGet_TTLBoundary(t *testing.T) {
	clock := newClock()
	c := New(WithClock(clock.Now))

	c.Set("k", []byte("v"))

	clock.Advance(DefaultTTL - time.Nanosecond)
	_, ok := c.Get("k")
	assert.True(t, ok, "present just before T0+TTL")

	clock.Advance(time.Nanosecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "absent at T0+TTL")
	assert.Equal(t, 0, c.Len(), "expired entry removed lazily")
}

func TestSweep(t *testing.T) {
	clock := newClock()
	c := New(WithClock(clock.Now), WithTTL(time.Minute))

	c.Set("old", []byte("1"))
	clock.Advance(30 * time.Second)
	c.Set("new", []byte("2"))
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := New(WithTTL(time.Millisecond))
	c.Set("k", []byte("v"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_NonPositiveIntervalReturns(t *testing.T) {
	c := New()
	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with zero interval must return immediately")
	}
}

func TestConcurrentSetAndInvalidate(t *testing.T) {
	c := New()
	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set(fmt.Sprintf("h/movies/%d", j%10), []byte("x"))
				c.Get("h/movies")
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Invalidate("h/movies", fmt.Sprint(j%10))
			}
		}(i)
	}
	wg.Wait()

	// Once Invalidate has returned, later reads of the removed keys miss.
	for j := 0; j < 10; j++ {
		c.Invalidate("h/movies", fmt.Sprint(j))
		_, ok := c.Get(fmt.Sprintf("h/movies/%d", j))
		assert.False(t, ok)
	}
}
