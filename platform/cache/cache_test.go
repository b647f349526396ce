package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewFromClient(client), mr
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := payload{Name: "tower-a", Count: 3}
	if err := c.SetJSON(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out payload
	if err := c.GetJSON(ctx, "k", &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out != in {
		t.Errorf("GetJSON = %+v, want %+v", out, in)
	}
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var out payload
	err := c.GetJSON(context.Background(), "absent", &out)
	if !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", payload{Name: "x"}, time.Second); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	mr.FastForward(2 * time.Second)

	var out payload
	if err := c.GetJSON(ctx, "k", &out); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after expiry, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", payload{}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var out payload
	if err := c.GetJSON(ctx, "k", &out); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after delete, got %v", err)
	}
}
