package auth

import (
	"context"
	"sync"
	"time"

	"github.com/mrlokans/bookexchange/internal/config"
)

const (
	defaultMaxAttempts     = 5
	defaultRateLimitWindow = 15 * time.Minute
	defaultLockout         = 30 * time.Minute
	rateLimitSweepInterval = 5 * time.Minute
)

// RateLimiter throttles credential checks per client IP and login name.
// Failures inside the window are counted; reaching the limit locks the pair
// out for the lockout duration.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord

	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// NewRateLimiter builds a limiter from the auth configuration.
func NewRateLimiter(cfg config.Auth) *RateLimiter {
	rl := &RateLimiter{
		attempts:    make(map[string]*attemptRecord),
		maxAttempts: cfg.MaxLoginAttempts,
		window:      cfg.RateLimitWindow,
		lockout:     cfg.LockoutDuration,
		now:         time.Now,
	}
	if rl.maxAttempts <= 0 {
		rl.maxAttempts = defaultMaxAttempts
	}
	if rl.window <= 0 {
		rl.window = defaultRateLimitWindow
	}
	if rl.lockout <= 0 {
		rl.lockout = defaultLockout
	}
	return rl
}

func attemptKey(ip, login string) string {
	return ip + "|" + login
}

// Allow reports whether another attempt may be made, and if not, how long
// the caller has to wait.
func (rl *RateLimiter) Allow(ip, login string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, ok := rl.attempts[attemptKey(ip, login)]
	if !ok {
		return true, 0
	}
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	if now.Sub(record.firstAttempt) > rl.window {
		return true, 0
	}
	if record.count < rl.maxAttempts {
		return true, 0
	}
	return false, rl.lockout
}

// RecordFailure counts a failed attempt. It returns true when the pair is
// now locked out.
func (rl *RateLimiter) RecordFailure(ip, login string) bool {
	now := rl.now()
	key := attemptKey(ip, login)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, ok := rl.attempts[key]
	if !ok || now.Sub(record.firstAttempt) > rl.window {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[key] = record
	}

	record.count++
	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockout)
		return true
	}
	return false
}

// RecordSuccess forgets every failure of the pair.
func (rl *RateLimiter) RecordSuccess(ip, login string) {
	rl.mu.Lock()
	delete(rl.attempts, attemptKey(ip, login))
	rl.mu.Unlock()
}

// Run sweeps expired records until ctx is cancelled.
func (rl *RateLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(rateLimitSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, record := range rl.attempts {
		if now.Sub(record.firstAttempt) > rl.window && !now.Before(record.lockedUntil) {
			delete(rl.attempts, key)
		}
	}
}
