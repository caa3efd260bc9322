package audit

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/models"
)

// Recorder appends audit log entries for privileged admin actions. Entries
// are write-once; nothing in the codebase updates them.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record is fire-and-forget: a failed insert is logged, never propagated, so
// an audit outage cannot block the action it describes.
func (r *Recorder) Record(adminID uuid.UUID, action, targetType string, targetID *uuid.UUID, details map[string]any, ip, userAgent string) {
	entry := models.AuditLogEntry{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IP:         ip,
		UserAgent:  userAgent,
	}

	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(b)
		}
	}

	if err := r.db.Create(&entry).Error; err != nil {
		slog.Error("failed to record audit entry",
			"action", action, "admin_id", adminID, "error", err)
	}
}

func (r *Recorder) List(action string, limit, offset int) ([]models.AuditLogEntry, int64, error) {
	var entries []models.AuditLogEntry
	var total int64

	query := r.db.Model(&models.AuditLogEntry{})
	if action != "" {
		query = query.Where("action = ?", action)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// StartCleanup runs a daily goroutine that deletes audit entries older than
// the configured retention window. This sweep is the only path that ever
// removes audit rows.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -retentionDays)
				result := db.Where("created_at < ?", cutoff).Delete(&models.AuditLogEntry{})
				if result.Error != nil {
					slog.Error("audit cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("audit cleanup completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
