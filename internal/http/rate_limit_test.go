package httpx

import (
	"testing"
	"time"
)

func TestMemoryRateLimiterEnforcesLimit(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 3; i++ {
		decision := rl.Allow("ip:10.0.0.1", 3, time.Minute)
		if !decision.allowed {
			t.Fatalf("request %d unexpectedly denied", i+1)
		}
		if decision.count != i+1 {
			t.Fatalf("unexpected count: %d", decision.count)
		}
	}
	decision := rl.Allow("ip:10.0.0.1", 3, time.Minute)
	if decision.allowed {
		t.Fatal("expected denial past limit")
	}
	if decision.windowEnd.IsZero() {
		t.Fatal("expected window end on denial")
	}
}

func TestMemoryRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 2; i++ {
		rl.Allow("ip:10.0.0.1", 2, time.Minute)
	}
	if decision := rl.Allow("ip:10.0.0.1", 2, time.Minute); decision.allowed {
		t.Fatal("expected first key exhausted")
	}
	if decision := rl.Allow("ip:10.0.0.2", 2, time.Minute); !decision.allowed {
		t.Fatal("expected second key untouched")
	}
}

func TestMemoryRateLimiterWindowReset(t *testing.T) {
	rl := NewMemoryRateLimiter().(*memoryRateLimiter)
	defer rl.Close()

	rl.Allow("ip:10.0.0.1", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if decision := rl.Allow("ip:10.0.0.1", 1, time.Millisecond); !decision.allowed {
		t.Fatal("expected fresh window after expiry")
	}
}

func TestMemoryRateLimiterCleanup(t *testing.T) {
	rl := NewMemoryRateLimiter().(*memoryRateLimiter)
	defer rl.Close()

	rl.Allow("ip:10.0.0.1", 5, time.Millisecond)
	rl.cleanup(time.Now().Add(time.Second))

	rl.mu.Lock()
	remaining := len(rl.entries)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected swept entries, got %d", remaining)
	}
}
