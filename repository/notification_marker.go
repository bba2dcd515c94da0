package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotificationMarker remembers which (order, event) notifications were already sent.
type NotificationMarker interface {
	// MarkOnce records the pair and reports whether this call was the first.
	MarkOnce(ctx context.Context, orderID, event string) (bool, error)
	// Release forgets the pair so a later call may send it again.
	Release(ctx context.Context, orderID, event string) error
}

type RedisNotificationMarker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisNotificationMarker(client *redis.Client, ttl time.Duration) *RedisNotificationMarker {
	return &RedisNotificationMarker{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisNotificationMarker) getKey(orderID, event string) string {
	return fmt.Sprintf("notify:order:%s:%s", orderID, event)
}

func (r *RedisNotificationMarker) MarkOnce(ctx context.Context, orderID, event string) (bool, error) {
	return r.client.SetNX(ctx, r.getKey(orderID, event), time.Now().Unix(), r.ttl).Result()
}

func (r *RedisNotificationMarker) Release(ctx context.Context, orderID, event string) error {
	return r.client.Del(ctx, r.getKey(orderID, event)).Err()
}
