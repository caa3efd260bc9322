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
	ErrReviewNotFound = errors.New("review not found")
	ErrSelfReview     = errors.New("cannot review yourself")
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func reviewSnapshot(r *models.Review) authz.Review {
	return authz.Review{AuthorID: r.AuthorID, ReviewedID: r.ReviewedID}
}

func (s *ReviewService) Create(author *models.User, req *dto.CreateReviewRequest) (*models.Review, error) {
	if req.ReviewedID == author.ID {
		return nil, ErrSelfReview
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	var reviewed models.User
	if err := s.db.First(&reviewed, "id = ?", req.ReviewedID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	review := models.Review{
		ID:         uuid.New(),
		AuthorID:   author.ID,
		ReviewedID: req.ReviewedID,
		TripID:     req.TripID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// ListForUser returns reviews received by a user; review listings are public.
func (s *ReviewService) ListForUser(userID uuid.UUID, limit, offset int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := s.db.Model(&models.Review{}).Where("reviewed_id = ?", userID)
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) Update(actor *models.User, reviewID uuid.UUID, req *dto.UpdateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, ErrReviewNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapEdit, reviewSnapshot(&review)) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, errors.New("rating must be between 1 and 5")
		}
		updates["rating"] = *req.Rating
	}
	if req.Comment != "" {
		updates["comment"] = req.Comment
	}

	if err := s.db.Model(&review).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return &review, nil
}

func (s *ReviewService) Delete(actor *models.User, reviewID uuid.UUID) error {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return ErrReviewNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapDelete, reviewSnapshot(&review)) {
		return ErrForbidden
	}
	return s.db.Delete(&review).Error
}
