package handlers

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/CHOJUNGHO96/algo-reference/internal/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterCleanup = 5 * time.Minute
	defaultLimiterIdleTTL = 10 * time.Minute
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	rate    rate.Limit
	burst   int
	idleTTL time.Duration

	mu      sync.RWMutex
	clients map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLoginLimiter allows perMinute attempts per IP with the given burst and
// starts a background sweep of idle entries. Call Stop when done.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &LoginLimiter{
		rate:    rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		idleTTL: defaultLimiterIdleTTL,
		clients: make(map[string]*clientLimiter),
		stopCh:  make(chan struct{}),
	}
	go l.cleanupLoop(defaultLimiterCleanup)
	return l
}

func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Allow reports whether key may make another attempt now.
func (l *LoginLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// RetryAfter is the whole number of seconds until one token refills.
func (l *LoginLimiter) RetryAfter() int {
	if l.rate <= 0 {
		return 60
	}
	return int(math.Ceil(1 / float64(l.rate)))
}

// Len returns the number of tracked clients.
func (l *LoginLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.clients)
}

func (l *LoginLimiter) get(key string) *rate.Limiter {
	now := time.Now()

	l.mu.RLock()
	cl, ok := l.clients[key]
	l.mu.RUnlock()
	if ok {
		l.mu.Lock()
		cl.lastAccess = now
		l.mu.Unlock()
		return cl.limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cl, ok := l.clients[key]; ok {
		cl.lastAccess = now
		return cl.limiter
	}
	cl = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst), lastAccess: now}
	l.clients[key] = cl
	return cl.limiter
}

func (l *LoginLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case now := <-ticker.C:
			l.sweep(now)
		}
	}
}

// sweep drops clients idle for longer than idleTTL.
func (l *LoginLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, cl := range l.clients {
		if now.Sub(cl.lastAccess) > l.idleTTL {
			delete(l.clients, key)
		}
	}
}

func (h *Handler) loginRateLimit(c *gin.Context) {
	l := h.opts.LoginLimiter
	if l == nil {
		c.Next()
		return
	}
	ip := c.ClientIP()
	if !l.Allow(ip) {
		h.opts.Metrics.RecordLogin(metrics.LoginRateLimited)
		h.log.Warnw("auth_login_rate_limited", "ip", ip)
		c.Header("Retry-After", strconv.Itoa(l.RetryAfter()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
		return
	}
	c.Next()
}
