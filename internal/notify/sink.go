package notify

import (
	"fmt"

	"github.com/google/uuid"
)

// Event types published by the expiration worker and admin flows.
const (
	EventTripExpired    = "trip_expired"
	EventRequestExpired = "request_expired"
	EventStatsChanged   = "stats_changed"
	EventAccountBanned  = "account_banned"
)

// Broadcast channels and delivery groups.
const (
	ChannelTrips    = "trips"
	ChannelRequests = "requests"
	GroupAdmins     = "admins"
)

// Sink delivers events to connected clients. Delivery is best-effort: every
// method fails independently with a *DeliveryError and callers are expected
// to catch, count and continue.
type Sink interface {
	PublishBroadcast(channel string, payload any, eventType string) error
	PublishToUser(userID uuid.UUID, payload any, eventType string) error
	PublishToGroup(group string, payload any, eventType string) error
}

// DeliveryError wraps a failed publish with its target.
type DeliveryError struct {
	Target string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification delivery to %s failed: %v", e.Target, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// NopSink discards every event. Used when no broker is configured.
type NopSink struct{}

func (NopSink) PublishBroadcast(string, any, string) error { return nil }
func (NopSink) PublishToUser(uuid.UUID, any, string) error { return nil }
func (NopSink) PublishToGroup(string, any, string) error   { return nil }
