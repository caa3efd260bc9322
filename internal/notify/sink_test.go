package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDeliveryErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &DeliveryError{Target: "user:" + uuid.Nil.String(), Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected Unwrap to expose the cause")
	}
	if !strings.Contains(err.Error(), "user:") {
		t.Fatalf("error message missing target: %q", err.Error())
	}
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	if err := s.PublishBroadcast(ChannelTrips, nil, EventTripExpired); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if err := s.PublishToUser(uuid.New(), nil, EventTripExpired); err != nil {
		t.Fatalf("user: %v", err)
	}
	if err := s.PublishToGroup(GroupAdmins, nil, EventStatsChanged); err != nil {
		t.Fatalf("group: %v", err)
	}
}
