package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const rateLimitWindow = 60 * time.Second

// RateLimit throttles POST requests per client IP over a one-minute window.
// With a Redis client the counter is shared across instances; without one a
// process-local sliding window is used.
func RateLimit(rdb *goredis.Client, limit int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if rdb != nil {
		return redisRateLimit(rdb, limit)
	}
	return localRateLimit(limit)
}

func redisRateLimit(rdb *goredis.Client, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		window := time.Now().Unix() / int64(rateLimitWindow.Seconds())
		key := fmt.Sprintf("studybuddy:rate_limit:%s:%d", ip, window)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down should degrade to no limiting, not block traffic.
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}
		if count > int64(limit) {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func localRateLimit(limit int) gin.HandlerFunc {
	limiter := newLocalLimiter(limit)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			ip = "local"
		}
		if !limiter.allow(ip, time.Now()) {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// localLimiter is a per-IP sliding window. Entries for clients idle longer
// than the window are evicted on a periodic sweep so the map stays bounded.
type localLimiter struct {
	mu        sync.Mutex
	limit     int
	history   map[string][]time.Time
	lastSweep time.Time
}

func newLocalLimiter(limit int) *localLimiter {
	return &localLimiter{limit: limit, history: map[string][]time.Time{}}
}

func (l *localLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	stamps := l.history[ip]
	keep := stamps[:0]
	for _, t := range stamps {
		if now.Sub(t) <= rateLimitWindow {
			keep = append(keep, t)
		}
	}
	if len(keep) >= l.limit {
		l.history[ip] = keep
		return false
	}
	l.history[ip] = append(keep, now)
	return true
}

// sweep drops clients whose newest request has left the window. Runs at most
// once per window.
func (l *localLimiter) sweep(now time.Time) {
	if !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < rateLimitWindow {
		return
	}
	l.lastSweep = now
	for ip, stamps := range l.history {
		if len(stamps) == 0 || now.Sub(stamps[len(stamps)-1]) > rateLimitWindow {
			delete(l.history, ip)
		}
	}
}

func tooManyRequests(c *gin.Context) {
	c.Header("Retry-After", "1")
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"ok":      0,
		"code":    http.StatusTooManyRequests,
		"message": "Too many requests. Please retry shortly.",
	})
}
