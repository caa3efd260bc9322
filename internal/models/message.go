package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users. Both parties are fixed at
// creation time.
type Message struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Body        string     `gorm:"not null;size:4000" json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Sender      User       `gorm:"foreignKey:SenderID" json:"-"`
	Recipient   User       `gorm:"foreignKey:RecipientID" json:"-"`
}
