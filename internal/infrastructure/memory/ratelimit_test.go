package memory

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_FixedWindow(t *testing.T) {
	clock := newClock()
	l := NewRateLimiter(NewStoreWithClock(clock.Now), 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d denied, want allowed", i)
		}
		if res.Remaining != int64(3-i) {
			t.Errorf("request %d remaining = %d, want %d", i, res.Remaining, 3-i)
		}
		if res.Limit != 3 {
			t.Errorf("limit = %d, want 3", res.Limit)
		}
	}

	res, _ := l.Allow(ctx, "1.2.3.4")
	if res.Allowed {
		t.Fatal("4th request allowed, want denied")
	}
	if res.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", res.Remaining)
	}
	if res.RetryAfter != time.Minute {
		t.Errorf("retry after = %v, want 1m", res.RetryAfter)
	}

	clock.Advance(time.Minute)
	if res, _ := l.Allow(ctx, "1.2.3.4"); !res.Allowed {
		t.Fatal("request in new window denied")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	l := NewRateLimiter(NewStore(), 1, time.Minute)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatal("first request for a denied")
	}
	if res, _ := l.Allow(ctx, "b"); !res.Allowed {
		t.Fatal("first request for b denied")
	}
	if res, _ := l.Allow(ctx, "a"); res.Allowed {
		t.Fatal("second request for a allowed")
	}
}
