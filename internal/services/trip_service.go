package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/authz"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/models"
)

var (
	ErrTripNotFound      = errors.New("trip not found")
	ErrInvalidTripStatus = errors.New("invalid trip status")
)

// ErrForbidden is returned whenever the authorization engine denies an
// action; handlers translate it into a 403.
var ErrForbidden = errors.New("forbidden")

type TripService struct {
	db *gorm.DB
}

func NewTripService(db *gorm.DB) *TripService {
	return &TripService{db: db}
}

func tripSnapshot(t *models.Trip) authz.Trip {
	return authz.Trip{OwnerID: t.OwnerID, Status: t.Status}
}

func (s *TripService) Create(owner *models.User, req *dto.CreateTripRequest) (*models.Trip, error) {
	if req.FromCity == "" || req.ToCity == "" {
		return nil, errors.New("from_city and to_city are required")
	}
	if req.CapacityKg <= 0 {
		return nil, errors.New("capacity_kg must be positive")
	}
	if req.PricePerKg < 0 {
		return nil, errors.New("price_per_kg must not be negative")
	}
	if req.DepartureDate.Before(time.Now()) {
		return nil, errors.New("departure_date must be in the future")
	}

	trip := models.Trip{
		ID:            uuid.New(),
		OwnerID:       owner.ID,
		FromCity:      req.FromCity,
		ToCity:        req.ToCity,
		DepartureDate: req.DepartureDate,
		CapacityKg:    req.CapacityKg,
		PricePerKg:    req.PricePerKg,
		Description:   req.Description,
		Status:        models.TripStatusActive,
	}

	if err := s.db.Create(&trip).Error; err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return &trip, nil
}

// ListPublic returns browsable trips only; no actor needed.
func (s *TripService) ListPublic(fromCity, toCity string, limit, offset int) ([]models.Trip, int64, error) {
	var trips []models.Trip
	var total int64

	query := s.db.Model(&models.Trip{}).Where("status = ?", models.TripStatusActive)
	if fromCity != "" {
		query = query.Where("from_city = ?", fromCity)
	}
	if toCity != "" {
		query = query.Where("to_city = ?", toCity)
	}
	query.Count(&total)

	if err := query.Order("departure_date ASC").Limit(limit).Offset(offset).Find(&trips).Error; err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (s *TripService) ListOwn(ownerID uuid.UUID, limit, offset int) ([]models.Trip, int64, error) {
	var trips []models.Trip
	var total int64

	query := s.db.Model(&models.Trip{}).Where("owner_id = ?", ownerID)
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&trips).Error; err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (s *TripService) Get(actor *models.User, tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := s.db.First(&trip, "id = ?", tripID).Error; err != nil {
		return nil, ErrTripNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapView, tripSnapshot(&trip)) {
		return nil, ErrForbidden
	}
	return &trip, nil
}

func (s *TripService) Update(actor *models.User, tripID uuid.UUID, req *dto.UpdateTripRequest) (*models.Trip, error) {
	var trip models.Trip
	if err := s.db.First(&trip, "id = ?", tripID).Error; err != nil {
		return nil, ErrTripNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapEdit, tripSnapshot(&trip)) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.FromCity != "" {
		updates["from_city"] = req.FromCity
	}
	if req.ToCity != "" {
		updates["to_city"] = req.ToCity
	}
	if req.DepartureDate != nil {
		updates["departure_date"] = *req.DepartureDate
	}
	if req.CapacityKg != nil {
		if *req.CapacityKg <= 0 {
			return nil, errors.New("capacity_kg must be positive")
		}
		updates["capacity_kg"] = *req.CapacityKg
	}
	if req.PricePerKg != nil {
		if *req.PricePerKg < 0 {
			return nil, errors.New("price_per_kg must not be negative")
		}
		updates["price_per_kg"] = *req.PricePerKg
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Status != "" {
		switch req.Status {
		case models.TripStatusActive, models.TripStatusFull,
			models.TripStatusCompleted, models.TripStatusCancelled:
			updates["status"] = req.Status
		default:
			// Owners cannot set "expired" by hand; only the worker does.
			return nil, ErrInvalidTripStatus
		}
	}

	if err := s.db.Model(&trip).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return &trip, nil
}

func (s *TripService) Delete(actor *models.User, tripID uuid.UUID) error {
	var trip models.Trip
	if err := s.db.First(&trip, "id = ?", tripID).Error; err != nil {
		return ErrTripNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapDelete, tripSnapshot(&trip)) {
		return ErrForbidden
	}
	return s.db.Delete(&trip).Error
}
