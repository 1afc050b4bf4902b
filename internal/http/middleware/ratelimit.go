package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter applies a token bucket per client IP. Buckets refill at rate
// tokens per second up to burst. Close stops the background sweep.
type RateLimiter struct {
	mu    sync.Mutex
	rate  float64
	burst float64
	seen  map[string]*tokenBucket

	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type tokenBucket struct {
	tokens   float64
	refilled time.Time
}

// NewRateLimiter builds a limiter allowing rate requests/sec with the given
// burst per IP and starts a background sweep of idle buckets.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:  rate,
		burst: float64(burst),
		seen:  make(map[string]*tokenBucket),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go rl.sweep(5 * time.Minute)
	return rl
}

// Close stops the sweep goroutine. Safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow reports whether a request from ip fits within the limit, consuming a
// token when it does.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.seen[ip]
	if !ok {
		rl.seen[ip] = &tokenBucket{tokens: rl.burst - 1, refilled: now}
		return true
	}

	b.tokens += now.Sub(b.refilled).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.refilled = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			stale := rl.now().Add(-2 * every)
			for ip, b := range rl.seen {
				if b.refilled.Before(stale) {
					delete(rl.seen, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Middleware rejects requests over the per-IP limit with
// 429 Too Many Requests. The client IP is taken from X-Real-Ip when chi's
// RealIP middleware has set it, falling back to RemoteAddr.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.Header.Get("X-Real-Ip")
			if ip == "" {
				ip = r.RemoteAddr
			}
			if !rl.Allow(ip) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
