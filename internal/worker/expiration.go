package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kervanapp/kervan-backend/internal/notify"
)

const DefaultBatchSize = 100

// Summary is the result of one expiration run.
type Summary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Total     int `json:"total"`
}

// Expirable is one candidate row staged for expiration.
type Expirable interface {
	ExpirableID() uuid.UUID
	ExpirableOwner() uuid.UUID
	MarkExpired() error
}

// Store supplies expiration candidates and persists staged mutations one
// batch at a time.
type Store interface {
	FindExpirable(cutoff time.Time) ([]Expirable, error)
	CommitBatch(batch []Expirable) error
	ReleaseWorkingSet()
}

// Worker scans one resource variant for rows whose deadline has passed while
// still in an open status, transitions them to expired in bounded sequential
// batches and emits best-effort notifications for each transition.
type Worker struct {
	variant   string
	store     Store
	sink      notify.Sink // nil disables notifications
	channel   string
	eventType string
	batchSize int
}

// NewTripWorker builds the worker for trips. Expired trips are announced on
// the trips broadcast channel and directly to each trip owner.
func NewTripWorker(store Store, sink notify.Sink, batchSize int) *Worker {
	return &Worker{
		variant:   "trip",
		store:     store,
		sink:      sink,
		channel:   notify.ChannelTrips,
		eventType: notify.EventTripExpired,
		batchSize: normalizeBatchSize(batchSize),
	}
}

// NewRequestWorker builds the worker for delivery requests. Request
// expirations are silent.
func NewRequestWorker(store Store, batchSize int) *Worker {
	return &Worker{
		variant:   "delivery_request",
		store:     store,
		batchSize: normalizeBatchSize(batchSize),
	}
}

func normalizeBatchSize(n int) int {
	if n <= 0 {
		return DefaultBatchSize
	}
	return n
}

type expiredPayload struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// Run executes one full scan. Individual item and notification failures are
// counted and skipped; a failing candidate query or batch commit is fatal for
// the run. Already-committed batches are never rolled back. Re-running after
// a successful run processes zero items because expired rows no longer match
// the candidate predicate.
func (w *Worker) Run() (Summary, error) {
	var sum Summary

	// Deadline comparisons are date-granular.
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	candidates, err := w.store.FindExpirable(cutoff)
	if err != nil {
		slog.Error("expiration scan failed", "variant", w.variant, "error", err)
		return sum, fmt.Errorf("find expirable %s: %w", w.variant, err)
	}

	sum.Total = len(candidates)
	if sum.Total == 0 {
		slog.Info("expiration run complete", "variant", w.variant,
			"processed", 0, "errors", 0, "total", 0)
		return sum, nil
	}

	for start := 0; start < len(candidates); start += w.batchSize {
		end := min(start+w.batchSize, len(candidates))
		batch := candidates[start:end]

		staged := make([]Expirable, 0, len(batch))
		for _, item := range batch {
			if err := item.MarkExpired(); err != nil {
				sum.Errors++
				slog.Error("failed to expire item", "variant", w.variant,
					"id", item.ExpirableID(), "error", err)
				continue
			}
			staged = append(staged, item)
		}

		if err := w.store.CommitBatch(staged); err != nil {
			slog.Error("batch commit failed", "variant", w.variant,
				"batch_size", len(staged), "error", err)
			return sum, fmt.Errorf("commit %s batch: %w", w.variant, err)
		}
		sum.Processed += len(staged)
		w.store.ReleaseWorkingSet()

		// Notifications go out only after the batch is durably committed;
		// a delivery failure never rolls the status change back.
		if w.sink != nil {
			w.notifyBatch(staged, &sum)
		}
	}

	if w.sink != nil && sum.Processed > 0 {
		payload := map[string]any{"variant": w.variant, "processed": sum.Processed}
		if err := w.sink.PublishToGroup(notify.GroupAdmins, payload, notify.EventStatsChanged); err != nil {
			slog.Error("stats broadcast failed", "variant", w.variant, "error", err)
		}
	}

	slog.Info("expiration run complete", "variant", w.variant,
		"processed", sum.Processed, "errors", sum.Errors, "total", sum.Total)
	return sum, nil
}

func (w *Worker) notifyBatch(staged []Expirable, sum *Summary) {
	for _, item := range staged {
		payload := expiredPayload{ID: item.ExpirableID(), Status: "expired"}

		if err := w.sink.PublishBroadcast(w.channel, payload, w.eventType); err != nil {
			sum.Errors++
			slog.Error("expiration broadcast failed", "variant", w.variant,
				"id", item.ExpirableID(), "error", err)
		}
		if err := w.sink.PublishToUser(item.ExpirableOwner(), payload, w.eventType); err != nil {
			sum.Errors++
			slog.Error("owner notification failed", "variant", w.variant,
				"id", item.ExpirableID(), "owner", item.ExpirableOwner(), "error", err)
		}
	}
}
