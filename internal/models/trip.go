package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TripStatusActive    = "active"
	TripStatusFull      = "full"
	TripStatusCompleted = "completed"
	TripStatusCancelled = "cancelled"
	TripStatusExpired   = "expired"
)

// Trip is a traveler's offer of spare luggage capacity on a planned journey.
type Trip struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	FromCity      string    `gorm:"not null;size:100" json:"from_city"`
	ToCity        string    `gorm:"not null;size:100" json:"to_city"`
	DepartureDate time.Time `gorm:"not null;index" json:"departure_date"`
	CapacityKg    float64   `gorm:"not null" json:"capacity_kg"`
	PricePerKg    float64   `gorm:"not null" json:"price_per_kg"`
	Description   string    `gorm:"size:1000" json:"description,omitempty"`
	Status        string    `gorm:"not null;default:'active';size:20;index" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Owner         User      `gorm:"foreignKey:OwnerID" json:"-"`
}
