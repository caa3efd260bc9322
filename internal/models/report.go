package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusPending  = "pending"
	ReportStatusHandled  = "handled"
	ReportStatusRejected = "rejected"
)

// Report is a user-filed complaint about another user or a message.
type Report struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReportedUserID    *uuid.UUID `gorm:"type:uuid;index" json:"reported_user_id,omitempty"`
	ReportedMessageID *uuid.UUID `gorm:"type:uuid" json:"reported_message_id,omitempty"`
	Reason            string     `gorm:"not null;size:500" json:"reason"`
	Status            string     `gorm:"not null;default:'pending';size:20;index" json:"status"`
	AdminNote         string     `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Reporter          User       `gorm:"foreignKey:ReporterID" json:"-"`
}
