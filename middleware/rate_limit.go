package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the burst size and the number of requests refilled per Window
	Requests int
	// Window is the time needed to refill a full burst
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
}

// rateLimitEntry is one client's token bucket
type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-endpoint, per-client token bucket limiter held in process memory
type RateLimiter struct {
	config RateLimitConfig
	store  map[string]*rateLimitEntry
	mu     sync.Mutex
	stop   chan struct{}
	once   sync.Once
}

type rateLimitResponse struct {
	Error string `json:"error"`
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.Requests <= 0 {
		config.Requests = 1
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	rl := &RateLimiter{
		config: config,
		store:  make(map[string]*rateLimitEntry),
		stop:   make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// Allow takes one token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	entry, exists := rl.store[key]
	if !exists {
		every := rl.config.Window / time.Duration(rl.config.Requests)
		entry = &rateLimitEntry{limiter: rate.NewLimiter(rate.Every(every), rl.config.Requests)}
		rl.store[key] = entry
	}
	entry.lastSeen = now
	rl.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rl.config.KeyFunc(c)
			if rl.Allow(key) {
				return next(c)
			}

			logrus.WithFields(logrus.Fields{
				"path": c.Request().URL.Path,
				"key":  key,
			}).Warn("Rate limit exceeded")

			c.Response().Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			return c.JSON(http.StatusTooManyRequests, rateLimitResponse{Error: rl.config.Message})
		}
	}
}

func (rl *RateLimiter) retryAfterSeconds() int {
	per := rl.config.Window / time.Duration(rl.config.Requests)
	return int(math.Max(1, math.Ceil(per.Seconds())))
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// cleanup drops buckets that have been idle for a full window; they would be full again anyway
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.store {
		if now.Sub(entry.lastSeen) > rl.config.Window {
			delete(rl.store, key)
		}
	}
}
