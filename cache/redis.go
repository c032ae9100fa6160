package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spirolink/SpiroLink-website-sub000/model"
)

const statusTTL = 30 * time.Second

func NewRedis(addr string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	log.Println("Redis connected")
	return rdb
}

// StatusCache fronts the hot payment-status lookup with a short TTL. The
// webhook handler invalidates on every applied transition, so the TTL only
// bounds staleness for readers that raced a delivery.
type StatusCache struct {
	rdb *redis.Client
}

func NewStatusCache(rdb *redis.Client) *StatusCache {
	return &StatusCache{rdb: rdb}
}

func statusKey(paymentID string) string {
	return "payment:" + paymentID
}

func (c *StatusCache) Get(ctx context.Context, paymentID string) (*model.Payment, bool) {
	cached, err := c.rdb.Get(ctx, statusKey(paymentID)).Result()
	if err != nil {
		return nil, false
	}

	var p model.Payment
	if err := json.Unmarshal([]byte(cached), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *StatusCache) Set(ctx context.Context, p *model.Payment) {
	js, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, statusKey(p.PaymentID), js, statusTTL)
}

func (c *StatusCache) Invalidate(ctx context.Context, paymentID string) {
	c.rdb.Del(ctx, statusKey(paymentID))
}
