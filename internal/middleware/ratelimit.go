package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// bucketIdle is how long an unused client bucket is kept.
const bucketIdle = 10 * time.Minute

// TokenBucket holds up to capacity tokens and regains refillRate per second.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   int
	tokens     int
	refillRate int
	lastRefill time.Time
}

func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow takes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	if gained := int(now.Sub(tb.lastRefill).Seconds() * float64(tb.refillRate)); gained > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+gained)
		tb.lastRefill = now
	}
	if tb.tokens == 0 {
		return false
	}
	tb.tokens--
	return true
}

// RateLimiter keys one bucket per client. Idle buckets expire out of the cache.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    *cache.Cache
	capacity   int
	refillRate int
}

func NewRateLimiter(capacity, refillRate int) *RateLimiter {
	return &RateLimiter{
		buckets:    cache.New(bucketIdle, bucketIdle/2),
		capacity:   capacity,
		refillRate: refillRate,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	var bucket *TokenBucket
	if x, found := rl.buckets.Get(key); found {
		bucket = x.(*TokenBucket)
	} else {
		bucket = NewTokenBucket(rl.capacity, rl.refillRate)
	}
	// touching the entry pushes its expiry out
	rl.buckets.SetDefault(key, bucket)
	rl.mu.Unlock()
	return bucket.Allow()
}

// RateLimitMiddleware rejects a client with 429 once its bucket is empty.
func RateLimitMiddleware(capacity, refillRate int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(capacity, refillRate)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				// refill is at least one token per second
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
