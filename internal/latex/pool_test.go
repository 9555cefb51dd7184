package latex

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAcquireRelease(t *testing.T) {
	pool := NewCompilePool(PoolConfig{MaxConcurrent: 2, QueueWait: time.Second})

	require.NoError(t, pool.Acquire(context.Background()))
	require.NoError(t, pool.Acquire(context.Background()))
	pool.Release(100*time.Millisecond, true)
	pool.Release(200*time.Millisecond, false)

	stats := pool.Stats()
	assert.Equal(t, int64(2), stats.JobsQueued)
	assert.Equal(t, int64(2), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsSuccessful)
	assert.Equal(t, int64(1), stats.JobsFailed)
	assert.Equal(t, 150*time.Millisecond, stats.AverageDuration)
}

func TestPoolCeilingRejectsOverflow(t *testing.T) {
	pool := NewCompilePool(PoolConfig{MaxConcurrent: 2, QueueWait: 100 * time.Millisecond})

	require.NoError(t, pool.Acquire(context.Background()))
	require.NoError(t, pool.Acquire(context.Background()))

	// Both slots held, the third submission waits out the queue bound and
	// is rejected.
	err := pool.Acquire(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindResourceExhausted))
	assert.Equal(t, int64(1), pool.Stats().JobsRejected)

	// Freeing a slot makes the next submission succeed again.
	pool.Release(time.Millisecond, true)
	assert.NoError(t, pool.Acquire(context.Background()))
}

func TestPoolCallerCancellationWhileQueued(t *testing.T) {
	pool := NewCompilePool(PoolConfig{MaxConcurrent: 1, QueueWait: 5 * time.Second})
	require.NoError(t, pool.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := pool.Acquire(ctx)
	require.Error(t, err)
	// Abandonment is the caller's context error, not exhaustion.
	assert.ErrorIs(t, err, context.Canceled)
	_, classified := KindOf(err)
	assert.False(t, classified)
}

func TestPoolRateLimiter(t *testing.T) {
	// One submission per minute with burst MaxConcurrent=1: the second
	// immediate submission trips the limiter.
	pool := NewCompilePool(PoolConfig{MaxConcurrent: 1, QueueWait: time.Second, RatePerMinute: 1})

	require.NoError(t, pool.Acquire(context.Background()))
	pool.Release(time.Millisecond, true)

	err := pool.Acquire(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindResourceExhausted))
	assert.Contains(t, err.Error(), "rate")
}

func TestPoolShutdownRejectsNewWork(t *testing.T) {
	pool := NewCompilePool(PoolConfig{MaxConcurrent: 2, QueueWait: time.Second})
	pool.Shutdown()

	err := pool.Acquire(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindResourceExhausted))
}

func TestPoolDefaults(t *testing.T) {
	pool := NewCompilePool(PoolConfig{})
	assert.Equal(t, 10*time.Second, pool.queueWait)
	assert.Nil(t, pool.limiter)

	// Zero config still yields a working ceiling.
	require.NoError(t, pool.Acquire(context.Background()))
	require.NoError(t, pool.Acquire(context.Background()))
}
