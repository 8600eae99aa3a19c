// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defaults.
const (
	// IdleLimiterTTL is how long an unused per-client limiter is kept.
	IdleLimiterTTL = 10 * time.Minute
	// CleanupInterval is the minimum time between two sweeps of idle limiters.
	CleanupInterval = time.Minute
)

type limiterWrapper struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter rate limits requests per client address with a token bucket.
type Limiter struct {
	rate  rate.Limit
	burst int
	now   func() time.Time

	mu            sync.Mutex
	clients       map[string]*limiterWrapper
	lastCleanupAt time.Time
}

// NewLimiter returns a Limiter allowing perSecond requests per second with the
// given burst for each client address.
func NewLimiter(perSecond, burst int) *Limiter {
	return &Limiter{
		rate:    rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*limiterWrapper),
	}
}

// Allow reports whether a request from client may proceed now.
func (l *Limiter) Allow(client string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cleanup(now)

	w, ok := l.clients[client]
	if !ok {
		w = &limiterWrapper{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[client] = w
	}

	w.lastAccess = now

	return w.limiter.AllowN(now, 1)
}

// cleanup drops limiters that have been idle for IdleLimiterTTL.
// l.mu must be held.
func (l *Limiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanupAt) < CleanupInterval {
		return
	}

	l.lastCleanupAt = now

	for client, w := range l.clients {
		if now.Sub(w.lastAccess) > IdleLimiterTTL {
			delete(l.clients, client)
		}
	}
}

// Evaluate is a middleware that answers 429 Too Many Requests once a client
// exceeds its budget.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if !l.Allow(clientIP(r)) {
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, errRateLimited)

		return
	}

	next.ServeHTTP(w, r)
}

// clientIP extracts the client's address from r.
//
// Proxy headers (X-Real-IP, X-Forwarded-For) are only trusted when the
// connection comes from a private or loopback address.
func clientIP(r *http.Request) string {
	remoteIP := r.RemoteAddr
	if ip, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = ip
	}

	ip := net.ParseIP(remoteIP)
	if ip == nil || !(ip.IsPrivate() || ip.IsLoopback()) {
		return remoteIP
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	// The last entry was appended by the nearest proxy.
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		parts := strings.Split(xff, ",")

		return strings.TrimSpace(parts[len(parts)-1])
	}

	return remoteIP
}
