// Package politeness provides an explicit, disabled-by-default extension
// point for per-host rate limiting. The worker pool calls Wait unconditionally;
// a deployer opts into throttling purely through configuration.
package politeness

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter hands out a per-authority token bucket. A zero-value Limiter (QPS
// 0) performs no limiting at all — every Wait call returns immediately.
type Limiter struct {
	qps   float64
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// New builds a Limiter that allows qps requests per second per authority,
// with the given burst. qps <= 0 disables limiting entirely.
func New(qps float64, burst int) *Limiter {
	return &Limiter{qps: qps, burst: burst, buckets: make(map[string]*rate.Limiter)}
}

// Wait blocks until authority's bucket has a token, or ctx is done. With
// limiting disabled it returns immediately.
func (l *Limiter) Wait(ctx context.Context, authority string) error {
	if l == nil || l.qps <= 0 {
		return nil
	}
	return l.bucketFor(authority).Wait(ctx)
}

func (l *Limiter) bucketFor(authority string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[authority]
	if !ok {
		b = rate.NewLimiter(rate.Limit(l.qps), l.burst)
		l.buckets[authority] = b
	}
	return b
}
