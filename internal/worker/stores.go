package worker

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/models"
)

// TripStore loads active trips whose departure date has passed.
type TripStore struct {
	db      *gorm.DB
	working []*models.Trip
}

func NewTripStore(db *gorm.DB) *TripStore {
	return &TripStore{db: db}
}

type expirableTrip models.Trip

func (t *expirableTrip) ExpirableID() uuid.UUID    { return t.ID }
func (t *expirableTrip) ExpirableOwner() uuid.UUID { return t.OwnerID }

func (t *expirableTrip) MarkExpired() error {
	t.Status = models.TripStatusExpired
	return nil
}

func (s *TripStore) FindExpirable(cutoff time.Time) ([]Expirable, error) {
	var trips []*models.Trip
	err := s.db.
		Where("status = ? AND departure_date < ?", models.TripStatusActive, cutoff).
		Find(&trips).Error
	if err != nil {
		return nil, err
	}

	s.working = trips
	out := make([]Expirable, len(trips))
	for i, t := range trips {
		out[i] = (*expirableTrip)(t)
	}
	return out, nil
}

func (s *TripStore) CommitBatch(batch []Expirable) error {
	if len(batch) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range batch {
			t := item.(*expirableTrip)
			if err := tx.Model(&models.Trip{}).
				Where("id = ?", t.ID).
				Update("status", t.Status).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TripStore) ReleaseWorkingSet() {
	s.working = nil
}

// RequestStore loads searching delivery requests whose limit date has passed.
// Requests without a limit date never expire.
type RequestStore struct {
	db      *gorm.DB
	working []*models.DeliveryRequest
}

func NewRequestStore(db *gorm.DB) *RequestStore {
	return &RequestStore{db: db}
}

type expirableRequest models.DeliveryRequest

func (r *expirableRequest) ExpirableID() uuid.UUID    { return r.ID }
func (r *expirableRequest) ExpirableOwner() uuid.UUID { return r.OwnerID }

func (r *expirableRequest) MarkExpired() error {
	r.Status = models.RequestStatusExpired
	return nil
}

func (s *RequestStore) FindExpirable(cutoff time.Time) ([]Expirable, error) {
	var requests []*models.DeliveryRequest
	err := s.db.
		Where("status = ? AND limit_date IS NOT NULL AND limit_date < ?",
			models.RequestStatusSearching, cutoff).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	s.working = requests
	out := make([]Expirable, len(requests))
	for i, r := range requests {
		out[i] = (*expirableRequest)(r)
	}
	return out, nil
}

func (s *RequestStore) CommitBatch(batch []Expirable) error {
	if len(batch) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range batch {
			r := item.(*expirableRequest)
			if err := tx.Model(&models.DeliveryRequest{}).
				Where("id = ?", r.ID).
				Update("status", r.Status).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *RequestStore) ReleaseWorkingSet() {
	s.working = nil
}
