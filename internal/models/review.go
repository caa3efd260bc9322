package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is left by one party of a completed delivery about the other.
type Review struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	ReviewedID uuid.UUID  `gorm:"type:uuid;not null;index" json:"reviewed_id"`
	TripID     *uuid.UUID `gorm:"type:uuid" json:"trip_id,omitempty"`
	Rating     int        `gorm:"not null" json:"rating"`
	Comment    string     `gorm:"size:1000" json:"comment,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Author     User       `gorm:"foreignKey:AuthorID" json:"-"`
	Reviewed   User       `gorm:"foreignKey:ReviewedID" json:"-"`
}
