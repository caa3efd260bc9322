package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLogEntry records one privileged admin action. Rows are write-once:
// they are never updated and only removed by the retention sweep.
type AuditLogEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action     string         `gorm:"not null;size:100;index" json:"action"`
	TargetType string         `gorm:"not null;size:50" json:"target_type"`
	TargetID   *uuid.UUID     `gorm:"type:uuid;index" json:"target_id,omitempty"`
	Details    datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"details"`
	IP         string         `gorm:"size:45" json:"ip"`
	UserAgent  string         `gorm:"size:255" json:"user_agent"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	Admin      User           `gorm:"foreignKey:AdminID" json:"-"`
}

func (AuditLogEntry) TableName() string {
	return "audit_logs"
}
