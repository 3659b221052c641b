package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// loginLimiter 按客户端 IP 的滑动窗口计数
type loginLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	attempts map[string][]time.Time
}

func newLoginLimiter(maxAttempts int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		max:      maxAttempts,
		window:   window,
		attempts: make(map[string][]time.Time),
	}
}

// recent 丢弃窗口外的记录，调用方持有锁
func (l *loginLimiter) recent(ip string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.attempts[ip][:0]
	for _, t := range l.attempts[ip] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, ip)
		return nil
	}
	l.attempts[ip] = kept
	return kept
}

// allow 记录一次尝试；超限时返回还需等待的时间
func (l *loginLimiter) allow(ip string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.recent(ip, now)
	if len(ts) >= l.max {
		return false, ts[0].Add(l.window).Sub(now)
	}
	l.attempts[ip] = append(ts, now)
	return true, 0
}

// sweep 清理所有过期 IP
func (l *loginLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip := range l.attempts {
		l.recent(ip, now)
	}
}

// LoginRateLimit 登录接口限流，每个 IP 在 window 内最多 maxAttempts 次，超过返回 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	limiter := newLoginLimiter(maxAttempts, window)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			limiter.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		ok, wait := limiter.allow(c.ClientIP(), time.Now())
		if !ok {
			seconds := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(1, seconds)))
			abortWith(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
			return
		}
		c.Next()
	}
}
