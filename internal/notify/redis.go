package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSink publishes events over Redis pub/sub. Channel names mirror the
// AMQP routing keys so consumers can subscribe with the same patterns.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(addr, password string) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisSink{client: client}, nil
}

func (s *RedisSink) publish(channel string, payload any, eventType string) error {
	body, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		return &DeliveryError{Target: channel, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.client.Publish(ctx, channel, body).Err(); err != nil {
		return &DeliveryError{Target: channel, Err: err}
	}
	return nil
}

func (s *RedisSink) PublishBroadcast(channel string, payload any, eventType string) error {
	return s.publish("broadcast."+channel, payload, eventType)
}

func (s *RedisSink) PublishToUser(userID uuid.UUID, payload any, eventType string) error {
	return s.publish("user."+userID.String(), payload, eventType)
}

func (s *RedisSink) PublishToGroup(group string, payload any, eventType string) error {
	return s.publish("group."+group, payload, eventType)
}

func (s *RedisSink) Close() {
	_ = s.client.Close()
}
