package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// importLimiter allows one import request per window for each client
// address. A zero window disables limiting.
type importLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	limiters map[string]*rate.Limiter
}

func newImportLimiter(window time.Duration) *importLimiter {
	return &importLimiter{
		window:   window,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (limiter *importLimiter) allow(key string, now time.Time) bool {
	if limiter == nil || limiter.window <= 0 {
		return true
	}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	current, ok := limiter.limiters[key]
	if !ok {
		current = rate.NewLimiter(rate.Every(limiter.window), 1)
		limiter.limiters[key] = current
	}
	return current.AllowN(now, 1)
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
