package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kervanapp/kervan-backend/internal/authn"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/services"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	message, err := h.messageService.Send(actor, &req)
	if err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	otherID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	limit, offset := pageParams(c)
	messages, total, err := h.messageService.Conversation(actor, otherID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch conversation",
		})
	}
	return c.JSON(fiber.Map{"messages": messages, "total": total, "limit": limit, "offset": offset})
}

func (h *MessageHandler) Get(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid message ID",
		})
	}

	message, err := h.messageService.Get(actor, messageID)
	if err != nil {
		return serviceError(c, err, services.ErrMessageNotFound)
	}
	return c.JSON(message)
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid message ID",
		})
	}

	if err := h.messageService.Delete(actor, messageID); err != nil {
		return serviceError(c, err, services.ErrMessageNotFound)
	}
	return c.JSON(fiber.Map{"message": "Message deleted"})
}
