package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RequestStatusSearching     = "searching"
	RequestStatusTravelerFound = "traveler_found"
	RequestStatusCancelled     = "cancelled"
	RequestStatusExpired       = "expired"
)

// DeliveryRequest is a sender's ask to have a parcel carried between two
// cities, optionally bounded by a latest acceptable delivery date.
type DeliveryRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	FromCity    string     `gorm:"not null;size:100" json:"from_city"`
	ToCity      string     `gorm:"not null;size:100" json:"to_city"`
	WeightKg    float64    `gorm:"not null" json:"weight_kg"`
	Description string     `gorm:"size:1000" json:"description,omitempty"`
	LimitDate   *time.Time `gorm:"index" json:"limit_date,omitempty"`
	Status      string     `gorm:"not null;default:'searching';size:20;index" json:"status"`
	TripID      *uuid.UUID `gorm:"type:uuid" json:"trip_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Owner       User       `gorm:"foreignKey:OwnerID" json:"-"`
}
