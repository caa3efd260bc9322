package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/audit"
	"github.com/kervanapp/kervan-backend/internal/authz"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/models"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrEmptyReport    = errors.New("report must target a user or a message")
)

type ModerationService struct {
	db      *gorm.DB
	auditor *audit.Recorder
}

func NewModerationService(db *gorm.DB, auditor *audit.Recorder) *ModerationService {
	return &ModerationService{db: db, auditor: auditor}
}

func (s *ModerationService) CreateReport(reporter *models.User, req *dto.CreateReportRequest) (*models.Report, error) {
	if !authz.Decide(authz.ActorFromUser(reporter), authz.CapCreate, authz.Report{}) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, errors.New("reason is required")
	}
	if req.ReportedUserID == nil && req.ReportedMessageID == nil {
		return nil, ErrEmptyReport
	}

	report := models.Report{
		ID:                uuid.New(),
		ReporterID:        reporter.ID,
		ReportedUserID:    req.ReportedUserID,
		ReportedMessageID: req.ReportedMessageID,
		Reason:            req.Reason,
		Status:            models.ReportStatusPending,
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ModerationService) GetReport(actor *models.User, reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrReportNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapView, authz.Report{ReporterID: report.ReporterID}) {
		return nil, ErrForbidden
	}
	return &report, nil
}

// ListReports is staff-only; the route is already behind the staff guard but
// the engine is still the authority.
func (s *ModerationService) ListReports(actor *models.User, status string, limit, offset int) ([]models.Report, int64, error) {
	if !authz.Decide(authz.ActorFromUser(actor), authz.CapProcess, authz.Report{}) {
		return nil, 0, ErrForbidden
	}

	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ModerationService) ProcessReport(actor *models.User, reportID uuid.UUID, req *dto.ProcessReportRequest, ip, userAgent string) error {
	if !authz.Decide(authz.ActorFromUser(actor), authz.CapProcess, authz.Report{}) {
		return ErrForbidden
	}

	if req.Status != models.ReportStatusHandled && req.Status != models.ReportStatusRejected {
		return errors.New("invalid status: must be handled or rejected")
	}

	result := s.db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"admin_note": req.AdminNote,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}

	s.auditor.Record(actor.ID, "report."+req.Status, "report", &reportID,
		map[string]any{"note": req.AdminNote}, ip, userAgent)
	return nil
}

// RemoveContent deletes a reported resource on behalf of a moderator or
// admin. The target is addressed by kind and id.
func (s *ModerationService) RemoveContent(actor *models.User, kind string, targetID uuid.UUID, ip, userAgent string) error {
	if !authz.Decide(authz.ActorFromUser(actor), authz.CapModerateContent, nil) {
		return ErrForbidden
	}

	var result *gorm.DB
	switch kind {
	case "trip":
		result = s.db.Where("id = ?", targetID).Delete(&models.Trip{})
	case "request":
		result = s.db.Where("id = ?", targetID).Delete(&models.DeliveryRequest{})
	case "review":
		result = s.db.Where("id = ?", targetID).Delete(&models.Review{})
	case "message":
		result = s.db.Where("id = ?", targetID).Delete(&models.Message{})
	default:
		return errors.New("invalid content kind")
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New(kind + " not found")
	}

	s.auditor.Record(actor.ID, "content.remove", kind, &targetID, nil, ip, userAgent)
	return nil
}
