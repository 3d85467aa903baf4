package redisStore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/novaquill/docmind/internal/data/redisStore"
)

func TestIncrWithExpirySetsExpiryOnlyOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisStore.NewTestStore(client)

	ctx := context.Background()
	key := "ratelimit:127.0.0.1"

	count, err := store.IncrWithExpiry(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if mr.TTL(key) != time.Minute {
		t.Errorf("expected expiry set on first increment, got %v", mr.TTL(key))
	}

	mr.FastForward(30 * time.Second)

	count, err = store.IncrWithExpiry(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if mr.TTL(key) != 30*time.Second {
		t.Errorf("expected the second increment to leave the expiry untouched, got %v", mr.TTL(key))
	}
}

func TestIncrWithExpiryResetsWindowAfterTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisStore.NewTestStore(client)

	ctx := context.Background()
	key := "ratelimit:10.0.0.1"

	if _, err := store.IncrWithExpiry(ctx, key, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Second)

	count, err := store.IncrWithExpiry(ctx, key, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected counter to reset to 1 after expiry, got %d", count)
	}
}

func TestSetGetDelRoundtrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisStore.NewTestStore(client)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "v" {
		t.Errorf("expected v, got %q", got)
	}
	exists, err := store.Exists(ctx, "k")
	if err != nil || !exists {
		t.Errorf("expected key to exist, exists=%v err=%v", exists, err)
	}
	if err := store.Del(ctx, "k"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}
	if mr.Exists("k") {
		t.Error("expected key removed after Del")
	}
}
