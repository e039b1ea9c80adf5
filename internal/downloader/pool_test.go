package downloader

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallgrab/pkg/logger"
	"wallgrab/pkg/models"
)

// mockFetcher fails candidates whose name is in fail and tracks peak concurrency
type mockFetcher struct {
	delay   time.Duration
	fail    map[string]bool
	active  int32
	peak    int32
	mu      sync.Mutex
	fetched []string
}

func (m *mockFetcher) Download(ctx context.Context, c models.Candidate) models.Outcome {
	n := atomic.AddInt32(&m.active, 1)
	defer atomic.AddInt32(&m.active, -1)
	for {
		p := atomic.LoadInt32(&m.peak)
		if n <= p || atomic.CompareAndSwapInt32(&m.peak, p, n) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	m.fetched = append(m.fetched, c.Name)
	m.mu.Unlock()

	if m.fail[c.Name] {
		return models.Failed(c.Name, fmt.Errorf("boom"))
	}
	return models.Succeeded(c.Name)
}

func candidates(n int) []models.Candidate {
	out := make([]models.Candidate, n)
	for i := range out {
		name := fmt.Sprintf("img-%d", i)
		out[i] = models.Candidate{URL: "https://x/" + name + ".png", Name: name, Ext: "png"}
	}
	return out
}

func collect(ch <-chan models.Outcome) map[string]models.Outcome {
	got := make(map[string]models.Outcome)
	for o := range ch {
		got[o.Name] = o
	}
	return got
}

func TestPoolOneOutcomePerCandidate(t *testing.T) {
	fetcher := &mockFetcher{fail: map[string]bool{"img-3": true}}
	pool := NewPool(fetcher, 0, logger.NewTestLogger())

	var count int
	got := make(map[string]models.Outcome)
	for o := range pool.Run(context.Background(), candidates(10)) {
		count++
		got[o.Name] = o
	}

	assert.Equal(t, 10, count)
	require.Len(t, got, 10)
	assert.False(t, got["img-3"].Success)
	assert.EqualError(t, got["img-3"].Err, "boom")
	for name, o := range got {
		if name != "img-3" {
			assert.True(t, o.Success, name)
		}
	}
}

func TestPoolUnboundedRunsAllAtOnce(t *testing.T) {
	fetcher := &mockFetcher{delay: 50 * time.Millisecond}
	pool := NewPool(fetcher, 0, logger.NewTestLogger())

	collect(pool.Run(context.Background(), candidates(8)))
	assert.Equal(t, int32(8), atomic.LoadInt32(&fetcher.peak))
}

func TestPoolRespectsConcurrencyLimit(t *testing.T) {
	fetcher := &mockFetcher{delay: 20 * time.Millisecond}
	pool := NewPool(fetcher, 2, logger.NewTestLogger())

	got := collect(pool.Run(context.Background(), candidates(6)))
	assert.Len(t, got, 6)
	assert.LessOrEqual(t, atomic.LoadInt32(&fetcher.peak), int32(2))
}

func TestPoolEmpty(t *testing.T) {
	pool := NewPool(&mockFetcher{}, 0, logger.NewTestLogger())

	select {
	case _, ok := <-pool.Run(context.Background(), nil):
		assert.False(t, ok, "channel should close without outcomes")
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestPoolCancelledContext(t *testing.T) {
	fetcher := &mockFetcher{}
	pool := NewPool(fetcher, 1, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := collect(pool.Run(ctx, candidates(4)))
	require.Len(t, got, 4)
	for _, o := range got {
		assert.False(t, o.Success)
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
	assert.Empty(t, fetcher.fetched)
}
