// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
)

// Limiter counts requests per key in fixed windows. It is safe for
// concurrent use. Expired windows are swept lazily on Allow.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	lastScan time.Time
	now      func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key per duration.
func New(limit int, duration time.Duration) *Limiter {
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// Allow records one request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// sweep drops expired windows at most once per duration. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastScan) < l.duration {
		return
	}
	l.lastScan = now
	for key, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, key)
		}
	}
}

// ClientIP returns the RemoteAddr host. With trustProxy it prefers the
// first X-Forwarded-For hop, then X-Real-IP; those headers are client
// controlled unless a reverse proxy overwrites them.
func ClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

// LoginLimiter throttles login attempts per client IP and per account email.
type LoginLimiter struct {
	ip    *Limiter
	email *Limiter

	// TrustProxy keys the per-IP window on forwarded headers.
	TrustProxy bool
}

// Messages returned by LoginLimiter.Check.
const (
	MsgTooManyFromIP     = "Too many login attempts. Please wait a minute before trying again."
	MsgTooManyForAccount = "Too many login attempts for this account. Please wait a few minutes."
)

// NewLoginLimiter allows 10 attempts per IP per minute and 5 per email per
// 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewLoginLimiterWithConfig creates a login limiter with custom limits.
func NewLoginLimiterWithConfig(ipLimit int, ipWindow time.Duration, emailLimit int, emailWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:    New(ipLimit, ipWindow),
		email: New(emailLimit, emailWindow),
	}
}

// Check records an attempt and returns ("", true) when it may proceed, or
// the message to show when it is throttled. A nil LoginLimiter allows all.
func (ll *LoginLimiter) Check(r *http.Request, email string) (string, bool) {
	if ll == nil {
		return "", true
	}
	if !ll.ip.Allow(ll.ClientIP(r)) {
		return MsgTooManyFromIP, false
	}
	if key := normalize.Email(email); key != "" && !ll.email.Allow(key) {
		return MsgTooManyForAccount, false
	}
	return "", true
}

// ClientIP is the address the per-IP window is keyed on.
func (ll *LoginLimiter) ClientIP(r *http.Request) string {
	return ClientIP(r, ll != nil && ll.TrustProxy)
}

// ResetEmail clears the per-account count after a successful login.
func (ll *LoginLimiter) ResetEmail(email string) {
	if ll == nil {
		return
	}
	if key := normalize.Email(email); key != "" {
		ll.email.Reset(key)
	}
}
