package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "review_analytics/internal/adapters/redis"
	"review_analytics/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := []domain.Review{{Brand: "Wanderdoll", CustomerName: "Ana", ReviewText: "great", Rating: 5}}
	if err := c.Set(ctx, "dataset:Wanderdoll:abc", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []domain.Review
	ok, err := c.Get(ctx, "dataset:Wanderdoll:abc", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(out) != 1 || out[0].CustomerName != "Ana" || out[0].Rating != 5 {
		t.Fatalf("roundtrip: %+v", out)
	}
}

func TestCache_MissAndDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var out []domain.Review
	ok, err := c.Get(ctx, "nope", &out)
	if err != nil || ok {
		t.Fatalf("expected miss: ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", []domain.Review{{Brand: "B"}}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatal("expected miss after del")
	}
}
