package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/authz"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/models"
)

var (
	ErrRequestNotFound      = errors.New("delivery request not found")
	ErrInvalidRequestStatus = errors.New("invalid request status")
)

type RequestService struct {
	db *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

func requestSnapshot(r *models.DeliveryRequest) authz.DeliveryRequest {
	return authz.DeliveryRequest{OwnerID: r.OwnerID, Status: r.Status}
}

func (s *RequestService) Create(owner *models.User, req *dto.CreateRequestRequest) (*models.DeliveryRequest, error) {
	if req.FromCity == "" || req.ToCity == "" {
		return nil, errors.New("from_city and to_city are required")
	}
	if req.WeightKg <= 0 {
		return nil, errors.New("weight_kg must be positive")
	}

	request := models.DeliveryRequest{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		FromCity:    req.FromCity,
		ToCity:      req.ToCity,
		WeightKg:    req.WeightKg,
		Description: req.Description,
		LimitDate:   req.LimitDate,
		Status:      models.RequestStatusSearching,
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create delivery request: %w", err)
	}
	return &request, nil
}

func (s *RequestService) ListPublic(fromCity, toCity string, limit, offset int) ([]models.DeliveryRequest, int64, error) {
	var requests []models.DeliveryRequest
	var total int64

	query := s.db.Model(&models.DeliveryRequest{}).Where("status = ?", models.RequestStatusSearching)
	if fromCity != "" {
		query = query.Where("from_city = ?", fromCity)
	}
	if toCity != "" {
		query = query.Where("to_city = ?", toCity)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *RequestService) ListOwn(ownerID uuid.UUID, limit, offset int) ([]models.DeliveryRequest, int64, error) {
	var requests []models.DeliveryRequest
	var total int64

	query := s.db.Model(&models.DeliveryRequest{}).Where("owner_id = ?", ownerID)
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (s *RequestService) Get(actor *models.User, requestID uuid.UUID) (*models.DeliveryRequest, error) {
	var request models.DeliveryRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		return nil, ErrRequestNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapView, requestSnapshot(&request)) {
		return nil, ErrForbidden
	}
	return &request, nil
}

func (s *RequestService) Update(actor *models.User, requestID uuid.UUID, req *dto.UpdateRequestRequest) (*models.DeliveryRequest, error) {
	var request models.DeliveryRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		return nil, ErrRequestNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapEdit, requestSnapshot(&request)) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.FromCity != "" {
		updates["from_city"] = req.FromCity
	}
	if req.ToCity != "" {
		updates["to_city"] = req.ToCity
	}
	if req.WeightKg != nil {
		if *req.WeightKg <= 0 {
			return nil, errors.New("weight_kg must be positive")
		}
		updates["weight_kg"] = *req.WeightKg
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.LimitDate != nil {
		updates["limit_date"] = *req.LimitDate
	}
	if req.Status != "" {
		switch req.Status {
		case models.RequestStatusSearching, models.RequestStatusTravelerFound,
			models.RequestStatusCancelled:
			updates["status"] = req.Status
		default:
			// "expired" belongs to the worker.
			return nil, ErrInvalidRequestStatus
		}
	}

	if err := s.db.Model(&request).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update delivery request: %w", err)
	}
	return &request, nil
}

func (s *RequestService) Delete(actor *models.User, requestID uuid.UUID) error {
	var request models.DeliveryRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		return ErrRequestNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapDelete, requestSnapshot(&request)) {
		return ErrForbidden
	}
	return s.db.Delete(&request).Error
}
