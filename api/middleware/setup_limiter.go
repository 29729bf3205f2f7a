package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const limiterIdleTTL = 15 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps one token bucket per client IP in process memory.
type IPLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// NewIPLimiter allows perMinute requests per IP on average with the given burst.
func NewIPLimiter(perMinute float64, burst int) *IPLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPLimiter{
		visitors: map[string]*visitor{},
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow consumes one token for ip.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// SetupLimiter throttles POSTs to the admin bootstrap form per client IP.
func SetupLimiter(limiter *IPLimiter, flash *responses.Flasher, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "ip", ip), "admin_setup.rate_limit.blocked")
				}
				flash.Set(w, responses.FlashError, msgTooManyAttempts)
				responses.Redirect(w, r, r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
