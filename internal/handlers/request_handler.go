package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kervanapp/kervan-backend/internal/authn"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/services"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) Create(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	request, err := h.requestService.Create(actor, &req)
	if err != nil {
		return serviceError(c, err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

func (h *RequestHandler) ListPublic(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	requests, total, err := h.requestService.ListPublic(c.Query("from"), c.Query("to"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch delivery requests",
		})
	}
	return c.JSON(fiber.Map{"requests": requests, "total": total, "limit": limit, "offset": offset})
}

func (h *RequestHandler) ListOwn(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, offset := pageParams(c)
	requests, total, err := h.requestService.ListOwn(actor.ID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch delivery requests",
		})
	}
	return c.JSON(fiber.Map{"requests": requests, "total": total, "limit": limit, "offset": offset})
}

func (h *RequestHandler) Get(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request ID",
		})
	}

	request, err := h.requestService.Get(actor, requestID)
	if err != nil {
		return serviceError(c, err, services.ErrRequestNotFound)
	}
	return c.JSON(request)
}

func (h *RequestHandler) Update(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request ID",
		})
	}

	var req dto.UpdateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	request, err := h.requestService.Update(actor, requestID, &req)
	if err != nil {
		return serviceError(c, err, services.ErrRequestNotFound)
	}
	return c.JSON(request)
}

func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request ID",
		})
	}

	if err := h.requestService.Delete(actor, requestID); err != nil {
		return serviceError(c, err, services.ErrRequestNotFound)
	}
	return c.JSON(fiber.Map{"message": "Delivery request deleted"})
}
