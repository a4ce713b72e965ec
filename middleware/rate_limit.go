package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/rankbbs/utils"
)

const (
	limiterIdleTTL = 5 * time.Minute
	// Idle visitors are swept at most once per interval.
	limiterSweepInterval = time.Minute
)

type visitor struct {
	limiter *rate.Limiter
	expires time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter allows perMinute requests per IP with a burst of half that.
// A non-positive perMinute disables limiting.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	l := &IPRateLimiter{visitors: map[string]*visitor{}, now: time.Now}
	if perMinute <= 0 {
		l.limit = rate.Inf
		l.burst = 1
		return l
	}
	l.limit = rate.Every(time.Minute / time.Duration(perMinute))
	l.burst = max(perMinute/2, 1)
	return l
}

// Allow reports whether one more request from key fits in its bucket.
func (l *IPRateLimiter) Allow(key string) bool {
	return l.visitor(key).limiter.Allow()
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.Allow(ctx.ClientIP()) {
			utils.Abort(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			return
		}
		ctx.Next()
	}
}

func (l *IPRateLimiter) visitor(key string) *visitor {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterSweepInterval {
		l.cleanupLocked(now)
		l.lastSweep = now
	}

	if v, ok := l.visitors[key]; ok {
		v.expires = now.Add(limiterIdleTTL)
		return v
	}

	v := &visitor{
		limiter: rate.NewLimiter(l.limit, l.burst),
		expires: now.Add(limiterIdleTTL),
	}
	l.visitors[key] = v
	return v
}

func (l *IPRateLimiter) cleanupLocked(now time.Time) {
	for key, v := range l.visitors {
		if now.After(v.expires) {
			delete(l.visitors, key)
		}
	}
}
