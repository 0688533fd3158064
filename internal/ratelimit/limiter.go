// Package ratelimit throttles login attempts per account and per client IP.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds login limiter configuration.
type Config struct {
	MaxFailures  int           // Failed attempts per account before lockout
	Lockout      time.Duration // Lockout duration after max failures
	MaxIPPerHour int           // Max attempts per IP per hour

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFailures:  5,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 50,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string
}

type entry struct {
	count    int
	firstAt  time.Time
	lastAt   time.Time
	lockedAt time.Time // zero if not locked
}

// Limiter tracks failed logins per account and total attempts per IP.
type Limiter struct {
	config *Config
	clock  Clock

	mu sync.RWMutex
	// Keyed by hash of username or IP
	byAccount map[string]*entry
	byIP      map[string]*entry

	lastCleanup time.Time
}

// New creates a login limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Limiter{
		config:    cfg,
		clock:     clock,
		byAccount: make(map[string]*entry),
		byIP:      make(map[string]*entry),
	}
}

// Check reports whether a login attempt for username from ip may proceed.
// It does not record the attempt; call RecordFailure or Reset afterward.
func (l *Limiter) Check(username, ip string) LimitResult {
	now := l.clock.Now()
	accountKey := hashKey("login:user:", normalize(username))
	ipKey := hashKey("login:ip:", ip)

	l.maybeCleanup(now)

	l.mu.RLock()
	defer l.mu.RUnlock()

	if e := l.byAccount[accountKey]; e != nil && !e.lockedAt.IsZero() {
		elapsed := now.Sub(e.lockedAt)
		if elapsed < l.config.Lockout {
			return LimitResult{
				Allowed:    false,
				RetryAfter: l.config.Lockout - elapsed,
				Reason:     "lockout",
			}
		}
		// Lockout expired; failure counter resets on next record.
	}

	if e := l.byIP[ipKey]; e != nil {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.MaxIPPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "ip_hourly_limit",
			}
		}
	}

	return LimitResult{Allowed: true}
}

// RecordFailure records a failed login. Returns true when this failure
// triggered the account lockout.
func (l *Limiter) RecordFailure(username, ip string) (lockedOut bool) {
	now := l.clock.Now()
	accountKey := hashKey("login:user:", normalize(username))
	ipKey := hashKey("login:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.byAccount[accountKey]
	switch {
	case e == nil:
		l.byAccount[accountKey] = &entry{count: 1, firstAt: now, lastAt: now}
	case !e.lockedAt.IsZero() && now.Sub(e.lockedAt) >= l.config.Lockout:
		// Lockout expired, start over.
		l.byAccount[accountKey] = &entry{count: 1, firstAt: now, lastAt: now}
	default:
		e.count++
		e.lastAt = now
		if e.count >= l.config.MaxFailures && e.lockedAt.IsZero() {
			e.lockedAt = now
			lockedOut = true
		}
	}

	l.recordIP(ipKey, now)
	return lockedOut
}

// RecordAttempt counts an attempt against the IP budget without touching the
// per-account failure counter. Call it for successful logins too.
func (l *Limiter) RecordAttempt(ip string) {
	now := l.clock.Now()
	ipKey := hashKey("login:ip:", ip)

	l.mu.Lock()
	l.recordIP(ipKey, now)
	l.mu.Unlock()
}

// Reset clears the failure counter after a successful login.
func (l *Limiter) Reset(username string) {
	accountKey := hashKey("login:user:", normalize(username))
	l.mu.Lock()
	delete(l.byAccount, accountKey)
	l.mu.Unlock()
}

func (l *Limiter) recordIP(ipKey string, now time.Time) {
	e := l.byIP[ipKey]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		l.byIP[ipKey] = &entry{count: 1, firstAt: now, lastAt: now}
	} else {
		e.count++
		e.lastAt = now
	}
}

// maybeCleanup drops stale entries at most once per five minutes, piggybacked
// on Check so no background goroutine is needed.
func (l *Limiter) maybeCleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = now

	maxAge := l.config.Lockout + time.Hour
	for k, e := range l.byAccount {
		if now.Sub(e.lastAt) > maxAge {
			delete(l.byAccount, k)
		}
	}
	for k, e := range l.byIP {
		if now.Sub(e.lastAt) > time.Hour {
			delete(l.byIP, k)
		}
	}
}

func hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

// normalize lowercases the username to prevent case-based bypass.
func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ClientIP extracts the client IP from a request, falling back to RemoteAddr
// verbatim when it has no port.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
