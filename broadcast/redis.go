package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes room events onto Redis pub/sub, decoupling the
// HTTP handlers from whichever process runs the socket bridge.
type RedisPublisher struct {
	Redis *redis.Client
}

// NewRedisPublisher wraps an existing Redis client.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{Redis: rdb}
}

// Publish sends one event to the room's channel. Subscriberless channels
// are not an error; the event is simply dropped.
func (p *RedisPublisher) Publish(ctx context.Context, roomID, event string, payload interface{}) error {
	body, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast payload: %w", err)
	}
	if err := p.Redis.Publish(ctx, ChannelFor(roomID), body).Err(); err != nil {
		return fmt.Errorf("failed to publish to room %s: %w", roomID, err)
	}
	return nil
}
