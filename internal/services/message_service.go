package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/authz"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/models"
	"github.com/kervanapp/kervan-backend/internal/notify"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrSelfMessage     = errors.New("cannot message yourself")
)

type MessageService struct {
	db   *gorm.DB
	sink notify.Sink // nil disables delivery notifications
}

func NewMessageService(db *gorm.DB, sink notify.Sink) *MessageService {
	return &MessageService{db: db, sink: sink}
}

func messageSnapshot(m *models.Message) authz.Message {
	return authz.Message{SenderID: m.SenderID, RecipientID: m.RecipientID}
}

func (s *MessageService) Send(sender *models.User, req *dto.SendMessageRequest) (*models.Message, error) {
	if req.RecipientID == sender.ID {
		return nil, ErrSelfMessage
	}
	if req.Body == "" {
		return nil, errors.New("body is required")
	}

	var recipient models.User
	if err := s.db.First(&recipient, "id = ?", req.RecipientID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	message := models.Message{
		ID:          uuid.New(),
		SenderID:    sender.ID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}

	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	// Delivery is best-effort; the stored message is the source of truth.
	if s.sink != nil {
		payload := map[string]any{"id": message.ID, "sender_id": sender.ID}
		if err := s.sink.PublishToUser(recipient.ID, payload, "message_received"); err != nil {
			slog.Error("message notification failed", "message_id", message.ID, "error", err)
		}
	}

	return &message, nil
}

// Conversation lists messages between the actor and another user, newest
// first, and marks received messages as read.
func (s *MessageService) Conversation(actor *models.User, otherID uuid.UUID, limit, offset int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	query := s.db.Model(&models.Message{}).Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		actor.ID, otherID, otherID, actor.ID)
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	for i := range messages {
		if !authz.Decide(authz.ActorFromUser(actor), authz.CapView, messageSnapshot(&messages[i])) {
			return nil, 0, ErrForbidden
		}
	}

	now := time.Now()
	s.db.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", otherID, actor.ID).
		Update("read_at", now)

	return messages, total, nil
}

func (s *MessageService) Get(actor *models.User, messageID uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := s.db.First(&message, "id = ?", messageID).Error; err != nil {
		return nil, ErrMessageNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapView, messageSnapshot(&message)) {
		return nil, ErrForbidden
	}
	return &message, nil
}

func (s *MessageService) Delete(actor *models.User, messageID uuid.UUID) error {
	var message models.Message
	if err := s.db.First(&message, "id = ?", messageID).Error; err != nil {
		return ErrMessageNotFound
	}

	if !authz.Decide(authz.ActorFromUser(actor), authz.CapDelete, messageSnapshot(&message)) {
		return ErrForbidden
	}
	return s.db.Delete(&message).Error
}
