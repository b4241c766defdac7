package httpmiddleware

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketExhaustion(t *testing.T) {
	l := NewTokenBucket(3, 60)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		if err != nil || !ok {
			t.Fatalf("request %d should be allowed, got ok=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := l.Allow(ctx, "1.2.3.4"); ok {
		t.Error("fourth request should be denied")
	}
	// A different key has its own bucket.
	if ok, _ := l.Allow(ctx, "5.6.7.8"); !ok {
		t.Error("separate key should not share the exhausted bucket")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	l := NewTokenBucket(2, 60) // one token per second
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	l.Allow(ctx, "k")
	l.Allow(ctx, "k")
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatal("bucket should be empty")
	}

	now = now.Add(2 * time.Second)
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Error("bucket should have refilled after 2s at 60/min")
	}
}

func TestTokenBucketDefaultCapacity(t *testing.T) {
	l := NewTokenBucket(0, 10)
	if l.capacity != 10 {
		t.Errorf("expected capacity to default to rate, got %d", l.capacity)
	}
}
