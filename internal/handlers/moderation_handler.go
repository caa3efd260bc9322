package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kervanapp/kervan-backend/internal/authn"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/services"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.moderationService.CreateReport(actor, &req)
	if err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) GetReport(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	report, err := h.moderationService.GetReport(actor, reportID)
	if err != nil {
		return serviceError(c, err, services.ErrReportNotFound)
	}
	return c.JSON(report)
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, offset := pageParams(c)
	reports, total, err := h.moderationService.ListReports(actor, c.Query("status"), limit, offset)
	if err != nil {
		return serviceError(c, err, services.ErrReportNotFound)
	}
	return c.JSON(fiber.Map{"reports": reports, "total": total, "limit": limit, "offset": offset})
}

func (h *ModerationHandler) ProcessReport(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.ProcessReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.moderationService.ProcessReport(actor, reportID, &req, c.IP(), c.Get("User-Agent")); err != nil {
		return serviceError(c, err, services.ErrReportNotFound)
	}
	return c.JSON(fiber.Map{"message": "Report processed"})
}

func (h *ModerationHandler) RemoveContent(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content ID",
		})
	}

	if err := h.moderationService.RemoveContent(actor, c.Params("kind"), targetID, c.IP(), c.Get("User-Agent")); err != nil {
		return serviceError(c, err, services.ErrReportNotFound)
	}
	return c.JSON(fiber.Map{"message": "Content removed"})
}
