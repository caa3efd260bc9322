package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/audit"
	"github.com/kervanapp/kervan-backend/internal/authz"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/models"
	"github.com/kervanapp/kervan-backend/internal/notify"
)

var (
	ErrAlreadyBanned = errors.New("user is already banned")
	ErrNotBanned     = errors.New("user is not banned")
	ErrInvalidRole   = errors.New("invalid role")
)

const overviewCacheKey = "admin:overview"

type AdminService struct {
	db      *gorm.DB
	auditor *audit.Recorder
	sink    notify.Sink   // nil disables ban notifications
	cache   *redis.Client // nil disables overview caching
}

func NewAdminService(db *gorm.DB, auditor *audit.Recorder, sink notify.Sink, cache *redis.Client) *AdminService {
	return &AdminService{db: db, auditor: auditor, sink: sink, cache: cache}
}

func (s *AdminService) loadTarget(targetID uuid.UUID) (*models.User, error) {
	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &target, nil
}

func (s *AdminService) BanUser(actor *models.User, targetID uuid.UUID, reason, ip, userAgent string) error {
	target, err := s.loadTarget(targetID)
	if err != nil {
		return err
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapBanUser, authz.TargetFromUser(target)) {
		return ErrForbidden
	}
	if target.IsBanned {
		return ErrAlreadyBanned
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_banned":    true,
		"banned_at":    now,
		"ban_reason":   reason,
		"banned_by_id": actor.ID,
	}
	if err := s.db.Model(target).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}

	s.auditor.Record(actor.ID, "user.ban", "user", &targetID,
		map[string]any{"reason": reason}, ip, userAgent)

	if s.sink != nil {
		payload := map[string]any{"reason": reason}
		if err := s.sink.PublishToUser(targetID, payload, notify.EventAccountBanned); err != nil {
			slog.Error("ban notification failed", "user_id", targetID, "error", err)
		}
	}
	return nil
}

func (s *AdminService) UnbanUser(actor *models.User, targetID uuid.UUID, ip, userAgent string) error {
	target, err := s.loadTarget(targetID)
	if err != nil {
		return err
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapUnbanUser, authz.TargetFromUser(target)) {
		return ErrForbidden
	}
	if !target.IsBanned {
		return ErrNotBanned
	}

	updates := map[string]interface{}{
		"is_banned":    false,
		"banned_at":    nil,
		"ban_reason":   "",
		"banned_by_id": nil,
	}
	if err := s.db.Model(target).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}

	s.auditor.Record(actor.ID, "user.unban", "user", &targetID, nil, ip, userAgent)
	return nil
}

func (s *AdminService) DeleteUser(actor *models.User, targetID uuid.UUID, ip, userAgent string) error {
	target, err := s.loadTarget(targetID)
	if err != nil {
		return err
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapDeleteUser, authz.TargetFromUser(target)) {
		return ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", targetID).Delete(&models.RefreshToken{})
		tx.Where("owner_id = ?", targetID).Delete(&models.Trip{})
		tx.Where("owner_id = ?", targetID).Delete(&models.DeliveryRequest{})
		tx.Where("reporter_id = ?", targetID).Delete(&models.Report{})
		return tx.Delete(target).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.auditor.Record(actor.ID, "user.delete", "user", &targetID, nil, ip, userAgent)
	return nil
}

func (s *AdminService) UpdateRoles(actor *models.User, targetID uuid.UUID, roles []string, ip, userAgent string) error {
	target, err := s.loadTarget(targetID)
	if err != nil {
		return err
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapEditRoles, authz.TargetFromUser(target)) {
		return ErrForbidden
	}

	if len(roles) == 0 {
		return ErrInvalidRole
	}
	for _, role := range roles {
		switch role {
		case models.RoleUser, models.RoleModerator, models.RoleAdmin:
		default:
			return ErrInvalidRole
		}
	}

	if err := s.db.Model(target).Update("roles", roles).Error; err != nil {
		return fmt.Errorf("failed to update roles: %w", err)
	}

	s.auditor.Record(actor.ID, "user.roles", "user", &targetID,
		map[string]any{"roles": roles}, ip, userAgent)
	return nil
}

func (s *AdminService) ListUsers(actor *models.User, banned *bool, limit, offset int) ([]models.User, int64, error) {
	if !authz.Decide(authz.ActorFromUser(actor), authz.CapAdminDashboard, nil) {
		return nil, 0, ErrForbidden
	}

	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	if banned != nil {
		query = query.Where("is_banned = ?", *banned)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Overview aggregates dashboard counts. Results are cached for a minute when
// a Redis client is configured; cache failures fall through to the database.
func (s *AdminService) Overview(actor *models.User) (*dto.OverviewResponse, error) {
	if !authz.Decide(authz.ActorFromUser(actor), authz.CapAdminDashboard, nil) {
		return nil, ErrForbidden
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if raw, err := s.cache.Get(ctx, overviewCacheKey).Bytes(); err == nil {
			var cached dto.OverviewResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	var overview dto.OverviewResponse
	s.db.Model(&models.User{}).Count(&overview.Users)
	s.db.Model(&models.User{}).Where("is_banned = true").Count(&overview.BannedUsers)
	s.db.Model(&models.Trip{}).Where("status = ?", models.TripStatusActive).Count(&overview.ActiveTrips)
	s.db.Model(&models.DeliveryRequest{}).Where("status = ?", models.RequestStatusSearching).Count(&overview.OpenRequests)
	s.db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending).Count(&overview.PendingReports)

	if s.cache != nil {
		if raw, err := json.Marshal(&overview); err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, overviewCacheKey, raw, time.Minute).Err(); err != nil {
				slog.Warn("overview cache write failed", "error", err)
			}
		}
	}
	return &overview, nil
}

// ListAuditLogs exposes the audit trail; ADMIN only.
func (s *AdminService) ListAuditLogs(actor *models.User, action string, limit, offset int) ([]models.AuditLogEntry, int64, error) {
	if !authz.Decide(authz.ActorFromUser(actor), authz.CapAdminLogs, nil) {
		return nil, 0, ErrForbidden
	}
	return s.auditor.List(action, limit, offset)
}

// ExportUsers renders a CSV snapshot of all users; ADMIN only.
func (s *AdminService) ExportUsers(actor *models.User) ([]byte, error) {
	if !authz.Decide(authz.ActorFromUser(actor), authz.CapAdminExport, nil) {
		return nil, ErrForbidden
	}

	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	buf := []byte("id,email,first_name,last_name,is_banned,created_at\n")
	for _, u := range users {
		line := fmt.Sprintf("%s,%s,%s,%s,%t,%s\n",
			u.ID, u.Email, u.FirstName, u.LastName, u.IsBanned,
			u.CreatedAt.Format(time.RFC3339))
		buf = append(buf, line...)
	}
	return buf, nil
}

// ForceDeleteTrip removes a trip addressed by bare id. Ownership is unknown
// on this path, so the engine's degraded ADMIN-only branch applies.
func (s *AdminService) ForceDeleteTrip(actor *models.User, tripID uuid.UUID, ip, userAgent string) error {
	if !authz.Decide(authz.ActorFromUser(actor), authz.CapDelete, tripID) {
		return ErrForbidden
	}

	result := s.db.Where("id = ?", tripID).Delete(&models.Trip{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTripNotFound
	}

	s.auditor.Record(actor.ID, "trip.force_delete", "trip", &tripID, nil, ip, userAgent)
	return nil
}
