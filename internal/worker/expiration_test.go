package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kervanapp/kervan-backend/internal/notify"
)

type fakeItem struct {
	id       uuid.UUID
	owner    uuid.UUID
	status   string
	failMark bool
}

func (i *fakeItem) ExpirableID() uuid.UUID    { return i.id }
func (i *fakeItem) ExpirableOwner() uuid.UUID { return i.owner }

func (i *fakeItem) MarkExpired() error {
	if i.failMark {
		return errors.New("mutation failed")
	}
	i.status = "expired"
	return nil
}

type fakeStore struct {
	items       []*fakeItem
	commitSizes []int
	releases    int
	findErr     error
	commitErr   error
}

func (s *fakeStore) FindExpirable(cutoff time.Time) ([]Expirable, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []Expirable
	for _, it := range s.items {
		if it.status == "active" {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *fakeStore) CommitBatch(batch []Expirable) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.commitSizes = append(s.commitSizes, len(batch))
	return nil
}

func (s *fakeStore) ReleaseWorkingSet() {
	s.releases++
}

type fakeSink struct {
	broadcasts  int
	directs     int
	groupEvents []string
	failUserFor map[uuid.UUID]bool
	failGroup   bool
}

func (s *fakeSink) PublishBroadcast(channel string, payload any, eventType string) error {
	s.broadcasts++
	return nil
}

func (s *fakeSink) PublishToUser(userID uuid.UUID, payload any, eventType string) error {
	if s.failUserFor[userID] {
		return &notify.DeliveryError{Target: userID.String(), Err: errors.New("connection reset")}
	}
	s.directs++
	return nil
}

func (s *fakeSink) PublishToGroup(group string, payload any, eventType string) error {
	if s.failGroup {
		return &notify.DeliveryError{Target: group, Err: errors.New("connection reset")}
	}
	s.groupEvents = append(s.groupEvents, group)
	return nil
}

func newFakeStore(n int) *fakeStore {
	s := &fakeStore{}
	for i := 0; i < n; i++ {
		s.items = append(s.items, &fakeItem{id: uuid.New(), owner: uuid.New(), status: "active"})
	}
	return s
}

func TestRunBatching(t *testing.T) {
	store := newFakeStore(250)
	w := NewRequestWorker(store, 100)

	sum, err := w.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Processed != 250 || sum.Errors != 0 || sum.Total != 250 {
		t.Fatalf("summary = %+v, want 250/0/250", sum)
	}
	want := []int{100, 100, 50}
	if len(store.commitSizes) != len(want) {
		t.Fatalf("commit count = %d, want %d", len(store.commitSizes), len(want))
	}
	for i, n := range want {
		if store.commitSizes[i] != n {
			t.Errorf("commit %d size = %d, want %d", i, store.commitSizes[i], n)
		}
	}
	if store.releases != 3 {
		t.Errorf("working set released %d times, want 3", store.releases)
	}
}

func TestRunIdempotence(t *testing.T) {
	store := newFakeStore(42)
	w := NewRequestWorker(store, 10)

	if sum, err := w.Run(); err != nil || sum.Processed != 42 {
		t.Fatalf("first run: sum=%+v err=%v", sum, err)
	}
	commits := len(store.commitSizes)

	sum, err := w.Run()
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if sum.Processed != 0 || sum.Errors != 0 || sum.Total != 0 {
		t.Fatalf("second run summary = %+v, want 0/0/0", sum)
	}
	if len(store.commitSizes) != commits {
		t.Fatal("second run must not commit anything")
	}
}

func TestPartialFailureIsolation(t *testing.T) {
	store := newFakeStore(100)
	store.items[36].failMark = true // item #37

	w := NewRequestWorker(store, 100)
	sum, err := w.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Processed != 99 || sum.Errors != 1 || sum.Total != 100 {
		t.Fatalf("summary = %+v, want 99/1/100", sum)
	}
	for i, it := range store.items {
		if i == 36 {
			if it.status != "active" {
				t.Fatal("failed item must keep its status")
			}
			continue
		}
		if it.status != "expired" {
			t.Fatalf("item %d not transitioned", i)
		}
	}
	if len(store.commitSizes) != 1 || store.commitSizes[0] != 99 {
		t.Fatalf("commit sizes = %v, want [99]", store.commitSizes)
	}
}

func TestTripNotifications(t *testing.T) {
	store := newFakeStore(30)
	sink := &fakeSink{}
	w := NewTripWorker(store, sink, 10)

	sum, err := w.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Processed != 30 || sum.Errors != 0 {
		t.Fatalf("summary = %+v", sum)
	}
	if sink.broadcasts != 30 || sink.directs != 30 {
		t.Fatalf("broadcasts=%d directs=%d, want 30/30", sink.broadcasts, sink.directs)
	}
	if len(sink.groupEvents) != 1 || sink.groupEvents[0] != notify.GroupAdmins {
		t.Fatalf("group events = %v, want one admins event", sink.groupEvents)
	}
}

func TestNotificationIndependence(t *testing.T) {
	store := newFakeStore(3)
	unlucky := store.items[1]
	sink := &fakeSink{failUserFor: map[uuid.UUID]bool{unlucky.owner: true}}

	w := NewTripWorker(store, sink, 100)
	sum, err := w.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Processed != 3 || sum.Errors != 1 {
		t.Fatalf("summary = %+v, want processed=3 errors=1", sum)
	}
	if unlucky.status != "expired" {
		t.Fatal("delivery failure must not roll back the status change")
	}
	if sink.broadcasts != 3 || sink.directs != 2 {
		t.Fatalf("broadcasts=%d directs=%d, want 3/2", sink.broadcasts, sink.directs)
	}
}

func TestStatsFailureLoggedOnly(t *testing.T) {
	store := newFakeStore(5)
	sink := &fakeSink{failGroup: true}

	w := NewTripWorker(store, sink, 100)
	sum, err := w.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Errors != 0 {
		t.Fatalf("aggregate stats failure must not count as an item error, got %d", sum.Errors)
	}
}

func TestNoNotificationsWhenNothingProcessed(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}

	w := NewTripWorker(store, sink, 100)
	sum, err := w.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Total != 0 || sum.Processed != 0 {
		t.Fatalf("summary = %+v, want all zero", sum)
	}
	if sink.broadcasts != 0 || len(sink.groupEvents) != 0 {
		t.Fatal("empty run must not publish anything")
	}
}

func TestFatalScanError(t *testing.T) {
	store := &fakeStore{findErr: errors.New("connection refused")}
	w := NewRequestWorker(store, 100)

	sum, err := w.Run()
	if err == nil {
		t.Fatal("expected fatal error from candidate query")
	}
	if sum.Processed != 0 {
		t.Fatalf("summary = %+v, want zero processed", sum)
	}
}

func TestFatalCommitError(t *testing.T) {
	store := newFakeStore(10)
	store.commitErr = errors.New("deadlock detected")
	w := NewRequestWorker(store, 100)

	sum, err := w.Run()
	if err == nil {
		t.Fatal("expected fatal error from batch commit")
	}
	if sum.Processed != 0 {
		t.Fatalf("summary = %+v, want zero processed", sum)
	}
}

func TestBatchSizeDefault(t *testing.T) {
	store := newFakeStore(150)
	w := NewRequestWorker(store, 0)

	if _, err := w.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{100, 50}
	if len(store.commitSizes) != 2 || store.commitSizes[0] != want[0] || store.commitSizes[1] != want[1] {
		t.Fatalf("commit sizes = %v, want %v", store.commitSizes, want)
	}
}
