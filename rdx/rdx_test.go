package rdx

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	cache, err := New("redis://"+srv.Addr(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSetGetRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "locations:browse:a", payload{Name: "Aquarium", Count: 2})

	var got payload
	if !cache.Get(ctx, "locations:browse:a", &got) {
		t.Fatal("expected a hit")
	}
	if got.Name != "Aquarium" || got.Count != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestGetMiss(t *testing.T) {
	cache := newTestCache(t)
	var got payload
	if cache.Get(context.Background(), "absent", &got) {
		t.Fatal("expected a miss")
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var cache *Cache
	ctx := context.Background()
	cache.Set(ctx, "k", payload{})
	var got payload
	if cache.Get(ctx, "k", &got) {
		t.Fatal("nil cache must always miss")
	}
	cache.InvalidatePrefix(ctx, "k")
}

func TestInvalidatePrefix(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "locations:browse:a", payload{Name: "a"})
	cache.Set(ctx, "locations:browse:b", payload{Name: "b"})
	cache.Set(ctx, "other:key", payload{Name: "keep"})

	cache.InvalidatePrefix(ctx, "locations:browse:")

	var got payload
	if cache.Get(ctx, "locations:browse:a", &got) || cache.Get(ctx, "locations:browse:b", &got) {
		t.Fatal("prefix keys should be gone")
	}
	if !cache.Get(ctx, "other:key", &got) {
		t.Fatal("unrelated key should survive")
	}
}
