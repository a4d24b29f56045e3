package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoshuaPothen/SleepTrackerV2/internal/response"
)

type windowEntry struct {
	count       int
	windowStart time.Time
}

// rateLimiter admits up to max requests per source IP per fixed window.
// It is process-local and deliberately best-effort: counters reset on
// restart and are not shared across instances, so admission near window
// boundaries can be slightly off either way.
type rateLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	window  time.Duration
	max     int
}

func (rl *rateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.entries[ip]
	if !ok || now.Sub(entry.windowStart) > rl.window {
		rl.entries[ip] = &windowEntry{count: 1, windowStart: now}
		return true
	}
	entry.count++
	return entry.count <= rl.max
}

// RateLimitMiddleware guards the ingest endpoint against a runaway device
// or an abusive source. Rejected requests never reach auth or parsing.
func RateLimitMiddleware(window time.Duration, max int) gin.HandlerFunc {
	rl := &rateLimiter{
		entries: make(map[string]*windowEntry),
		window:  window,
		max:     max,
	}
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.TooManyRequests("Too many requests"))
			return
		}
		c.Next()
	}
}
