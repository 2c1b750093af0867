package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/timeline-backend-go/pkg/response"
)

// bucket tracks the remaining tokens for one client.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter throttles clients by IP using token buckets. Each bucket
// refills at ratePerSecond up to burst; buckets idle longer than idleTTL
// are evicted in the background.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64
	idleTTL time.Duration
}

// NewRateLimiter creates a per-IP token bucket limiter and starts its
// eviction loop.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst < 1 {
		burst = 1
	}

	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    ratePerSecond,
		burst:   float64(burst),
		idleTTL: 10 * time.Minute,
	}
	go rl.evictLoop()
	return rl
}

// Allow consumes one token for ip and reports whether the request may
// proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{tokens: rl.burst}
		rl.buckets[ip] = b
	} else {
		b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
		if b.tokens > rl.burst {
			b.tokens = rl.burst
		}
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if time.Since(b.lastSeen) > rl.idleTTL {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit rejects clients that exceed ratePerSecond with HTTP 429.
func RateLimit(ratePerSecond float64, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(ratePerSecond, burst)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
