package places

import (
	"context"
	"math"
	"sync"
	"time"
)

// TokenBucket enforces the global ceiling on outbound lookup requests.
// Tokens refill continuously at ratePerSecond up to the burst capacity.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	ratePerSec float64
	lastRefill time.Time
}

// NewTokenBucket creates a token bucket refilling at ratePerSecond with the
// given burst capacity.
func NewTokenBucket(ratePerSecond float64, burst int) *TokenBucket {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		ratePerSec: ratePerSecond,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available, without blocking.
func (b *TokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is consumed or the context is done.
func (b *TokenBucket) Wait(ctx context.Context) error {
	for {
		b.mu.Lock()
		b.refill()
		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		missing := 1 - b.tokens
		b.mu.Unlock()

		timer := time.NewTimer(time.Duration(missing / b.ratePerSec * float64(time.Second)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill adds tokens for the time elapsed since the last refill.
// Callers must hold mu.
func (b *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens = math.Min(b.tokens+elapsed*b.ratePerSec, b.maxTokens)
	b.lastRefill = now
}
