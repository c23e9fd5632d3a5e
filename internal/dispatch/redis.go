package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type envelope struct {
	Name    string       `json:"name"`
	Payload domain.Event `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes events as JSON on a pub/sub channel.
type RedisSink struct {
	client  Publisher
	channel string
}

func NewRedisSink(client Publisher, channel string) *RedisSink {
	return &RedisSink{
		client:  client,
		channel: channel,
	}
}

func (s *RedisSink) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(envelope{Name: event.EventName(), Payload: event})
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err := s.client.Publish(ctx, s.channel, body).Err(); err != nil {
		return fmt.Errorf("s.client.Publish -> %w", err)
	}
	return nil
}
