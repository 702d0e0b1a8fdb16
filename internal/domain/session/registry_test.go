package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/lapis-malang/storefront/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRegistry(t *testing.T, ttl time.Duration) (*Registry, *fakeClock, *metrics.Metrics) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	m := metrics.NewNop()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}

	r := NewRegistry(ttl, logger, m)
	r.now = clock.Now
	return r, clock, m
}

func TestCreate_IssuesDistinctSessions(t *testing.T) {
	r, _, m := newTestRegistry(t, time.Hour)

	a := r.Create()
	b := r.Create()

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotSame(t, a.Cart, b.Cart)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ActiveSessions))
}

func TestGetOrCreate_ReturnsSameStoreForSameID(t *testing.T) {
	r, _, _ := newTestRegistry(t, time.Hour)

	first, created := r.GetOrCreate("abc")
	require.True(t, created)
	first.Cart.AddOne(catalog.Item{ID: "1", Price: 85000})

	second, created := r.GetOrCreate("abc")
	require.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, 1, second.Cart.TotalItems())
}

func TestEvictIdle(t *testing.T) {
	r, clock, m := newTestRegistry(t, 30*time.Minute)

	stale, _ := r.GetOrCreate("stale")
	fresh, _ := r.GetOrCreate("fresh")

	var closed atomic.Int32
	_, ok := stale.OnClose(func() { closed.Add(1) })
	require.True(t, ok)

	clock.Advance(20 * time.Minute)
	_, created := r.GetOrCreate("fresh") // activity keeps it alive
	require.False(t, created)

	clock.Advance(15 * time.Minute)
	evicted := r.EvictIdle()

	assert.Equal(t, 1, evicted)
	assert.True(t, stale.Closed())
	assert.False(t, fresh.Closed())
	assert.Equal(t, int32(1), closed.Load())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveSessions))

	again, created := r.GetOrCreate("stale")
	assert.True(t, created)
	assert.NotSame(t, stale, again)
	assert.True(t, again.Cart.IsEmpty())
}

func TestRemove_ClosesSession(t *testing.T) {
	r, _, _ := newTestRegistry(t, time.Hour)
	sess := r.Create()

	r.Remove(sess.ID)
	r.Remove(sess.ID)

	assert.True(t, sess.Closed())
	assert.Equal(t, 0, r.Len())
}

func TestSession_OnCloseRunsOnce(t *testing.T) {
	sess := newSession("x", time.Now())

	var calls int
	sess.OnClose(func() { calls++ })
	sess.OnClose(func() { calls++ })

	sess.Close()
	sess.Close()

	assert.Equal(t, 2, calls)
	_, ok := sess.OnClose(func() { calls++ })
	assert.False(t, ok, "hooks are refused after close")
	assert.Equal(t, 2, calls)
}

func TestSession_OnCloseRemove(t *testing.T) {
	sess := newSession("x", time.Now())

	var calls int
	remove, ok := sess.OnClose(func() { calls++ })
	require.True(t, ok)
	sess.OnClose(func() { calls += 10 })

	remove()
	remove()
	sess.Close()

	assert.Equal(t, 10, calls)
}

func TestClose_TearsDownAll(t *testing.T) {
	r, _, m := newTestRegistry(t, time.Hour)
	a := r.Create()
	b := r.Create()

	r.Close()

	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ActiveSessions))
}

func TestRun_StopsWithContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := NewRegistry(time.Millisecond, logger, metrics.NewNop())
	sess := r.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, sess.Closed, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
