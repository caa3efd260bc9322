package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName   = "kervan.events"
	publishTimeout = 5 * time.Second
)

// AMQPSink publishes events to a topic exchange. Routing keys:
// broadcast.<channel>, user.<id>, group.<name>.
type AMQPSink struct {
	url  string
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

// NewAMQPSink dials the broker with bounded retries and declares the topic
// exchange.
func NewAMQPSink(url string) (*AMQPSink, error) {
	s := &AMQPSink{url: url}

	maxRetries := 10
	delay := 1 * time.Second
	for attempt := 1; ; attempt++ {
		err := s.connect()
		if err == nil {
			slog.Info("amqp sink connected", "attempt", attempt)
			return s, nil
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("amqp connect after %d attempts: %w", maxRetries, err)
		}
		slog.Warn("amqp connect failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(delay)
		delay = time.Duration(float64(delay) * 1.5)
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
	}
}

func (s *AMQPSink) connect() error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.ch = ch
	s.mu.Unlock()
	return nil
}

func (s *AMQPSink) publish(routingKey string, payload any, eventType string) error {
	body, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		return &DeliveryError{Target: routingKey, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	s.mu.Lock()
	ch := s.ch
	s.mu.Unlock()

	err = ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		return &DeliveryError{Target: routingKey, Err: err}
	}
	return nil
}

func (s *AMQPSink) PublishBroadcast(channel string, payload any, eventType string) error {
	return s.publish("broadcast."+channel, payload, eventType)
}

func (s *AMQPSink) PublishToUser(userID uuid.UUID, payload any, eventType string) error {
	return s.publish("user."+userID.String(), payload, eventType)
}

func (s *AMQPSink) PublishToGroup(group string, payload any, eventType string) error {
	return s.publish("group."+group, payload, eventType)
}

func (s *AMQPSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
}
