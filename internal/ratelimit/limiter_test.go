package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestLimiter(cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Clock = clock
	return New(cfg), clock
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{
		MaxFailures:  3,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 100,
	})

	for i := 0; i < 2; i++ {
		if result := limiter.Check("siva", "1.2.3.4"); !result.Allowed {
			t.Fatalf("attempt %d should be allowed", i)
		}
		if locked := limiter.RecordFailure("siva", "1.2.3.4"); locked {
			t.Fatalf("attempt %d should not lock out", i)
		}
	}

	if locked := limiter.RecordFailure("siva", "1.2.3.4"); !locked {
		t.Fatal("third failure should trigger lockout")
	}

	result := limiter.Check("siva", "1.2.3.4")
	if result.Allowed {
		t.Fatal("locked account should be denied")
	}
	if result.Reason != "lockout" {
		t.Fatalf("expected lockout reason, got %q", result.Reason)
	}

	// Case variations must not bypass the lockout.
	if result := limiter.Check("SIVA", "9.9.9.9"); result.Allowed {
		t.Fatal("lockout must be case-insensitive")
	}

	clock.now = clock.now.Add(6 * time.Minute)
	if result := limiter.Check("siva", "1.2.3.4"); !result.Allowed {
		t.Fatalf("lockout should expire, got %q", result.Reason)
	}
}

func TestResetClearsFailures(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		MaxFailures:  2,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 100,
	})

	limiter.RecordFailure("siva", "1.2.3.4")
	limiter.Reset("siva")
	if locked := limiter.RecordFailure("siva", "1.2.3.4"); locked {
		t.Fatal("failure count should restart after reset")
	}
}

func TestIPHourlyLimit(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{
		MaxFailures:  100,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 3,
	})

	for i := 0; i < 3; i++ {
		limiter.RecordAttempt("1.2.3.4")
	}

	result := limiter.Check("anyone", "1.2.3.4")
	if result.Allowed {
		t.Fatal("IP over hourly budget should be denied")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Fatalf("expected ip_hourly_limit, got %q", result.Reason)
	}

	// A different IP is unaffected.
	if result := limiter.Check("anyone", "5.6.7.8"); !result.Allowed {
		t.Fatal("other IPs should be unaffected")
	}

	clock.now = clock.now.Add(61 * time.Minute)
	if result := limiter.Check("anyone", "1.2.3.4"); !result.Allowed {
		t.Fatal("IP budget should reset after an hour")
	}
}
