package latex

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// PoolConfig bounds the external toolchain's resource usage
type PoolConfig struct {
	// MaxConcurrent is the ceiling on simultaneous compiler subprocesses
	MaxConcurrent int
	// QueueWait bounds how long a request may wait for a slot before it
	// is rejected with ResourceExhausted. Queue time is budgeted
	// separately from the compile timeout.
	QueueWait time.Duration
	// RatePerMinute caps compile submissions; zero disables the limiter
	RatePerMinute int
}

// CompilePool is the process-wide concurrency ceiling around compiler
// invocations. The external toolchain is CPU- and memory-heavy, so
// requests beyond the ceiling wait (bounded) instead of spawning
// unbounded subprocesses. Initialized once at startup; Shutdown lets
// in-flight compilations finish.
type CompilePool struct {
	sem       *semaphore.Weighted
	limiter   *rate.Limiter
	queueWait time.Duration

	mu       sync.RWMutex
	shutdown bool
	stats    PoolStats
}

// PoolStats tracks compilation pool counters
type PoolStats struct {
	JobsQueued      int64         `json:"jobs_queued"`
	JobsProcessed   int64         `json:"jobs_processed"`
	JobsSuccessful  int64         `json:"jobs_successful"`
	JobsFailed      int64         `json:"jobs_failed"`
	JobsRejected    int64         `json:"jobs_rejected"`
	TotalTime       time.Duration `json:"-"`
	AverageDuration time.Duration `json:"average_duration"`
}

// NewCompilePool creates the pool with sane lower bounds
func NewCompilePool(cfg PoolConfig) *CompilePool {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.QueueWait <= 0 {
		cfg.QueueWait = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), cfg.MaxConcurrent)
	}

	return &CompilePool{
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		limiter:   limiter,
		queueWait: cfg.QueueWait,
	}
}

// Acquire claims a compiler slot, waiting at most the configured queue
// bound. It returns ResourceExhausted when the pool is saturated or the
// submission rate is exceeded, and the caller's context error when the
// request was abandoned while queued.
func (p *CompilePool) Acquire(ctx context.Context) error {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return newError(KindResourceExhausted, "compiler pool is shut down")
	}
	p.stats.JobsQueued++
	p.mu.Unlock()

	if p.limiter != nil && !p.limiter.Allow() {
		p.reject()
		return newError(KindResourceExhausted, "compile submission rate exceeded")
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.queueWait)
	defer cancel()

	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		p.reject()
		if ctx.Err() != nil {
			// The caller went away, not the pool's fault
			return ctx.Err()
		}
		return newError(KindResourceExhausted, "no compiler slot became available within the queue wait bound")
	}
	return nil
}

// Release returns a slot and records the outcome of the compilation that
// held it.
func (p *CompilePool) Release(duration time.Duration, success bool) {
	p.sem.Release(1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.JobsProcessed++
	p.stats.TotalTime += duration
	if success {
		p.stats.JobsSuccessful++
	} else {
		p.stats.JobsFailed++
	}
}

func (p *CompilePool) reject() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.JobsRejected++
}

// Stats returns a snapshot of the pool counters
func (p *CompilePool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := p.stats
	if stats.JobsProcessed > 0 {
		stats.AverageDuration = stats.TotalTime / time.Duration(stats.JobsProcessed)
	}
	return stats
}

// Shutdown stops accepting new work. In-flight compilations keep their
// slots until they finish or are cancelled by their own contexts.
func (p *CompilePool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdown = true
}
