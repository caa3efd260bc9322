package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kervanapp/kervan-backend/internal/authn"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.BanUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.adminService.BanUser(actor, targetID, req.Reason, c.IP(), c.Get("User-Agent")); err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}
	return c.JSON(fiber.Map{"message": "User banned"})
}

func (h *AdminHandler) UnbanUser(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if err := h.adminService.UnbanUser(actor, targetID, c.IP(), c.Get("User-Agent")); err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}
	return c.JSON(fiber.Map{"message": "User unbanned"})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if err := h.adminService.DeleteUser(actor, targetID, c.IP(), c.Get("User-Agent")); err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

func (h *AdminHandler) UpdateRoles(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.UpdateRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.adminService.UpdateRoles(actor, targetID, req.Roles, c.IP(), c.Get("User-Agent")); err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}
	return c.JSON(fiber.Map{"message": "Roles updated"})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var banned *bool
	if raw := c.Query("banned"); raw != "" {
		v := raw == "true"
		banned = &v
	}

	limit, offset := pageParams(c)
	users, total, err := h.adminService.ListUsers(actor, banned, limit, offset)
	if err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"users": out, "total": total, "limit": limit, "offset": offset})
}

func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	overview, err := h.adminService.Overview(actor)
	if err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}
	return c.JSON(overview)
}

func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, offset := pageParams(c)
	entries, total, err := h.adminService.ListAuditLogs(actor, c.Query("action"), limit, offset)
	if err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}
	return c.JSON(fiber.Map{"logs": entries, "total": total, "limit": limit, "offset": offset})
}

func (h *AdminHandler) ExportUsers(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	csv, err := h.adminService.ExportUsers(actor)
	if err != nil {
		return serviceError(c, err, services.ErrUserNotFound)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return c.Send(csv)
}

func (h *AdminHandler) ForceDeleteTrip(c *fiber.Ctx) error {
	actor, err := authn.Actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	tripID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid trip ID",
		})
	}

	if err := h.adminService.ForceDeleteTrip(actor, tripID, c.IP(), c.Get("User-Agent")); err != nil {
		return serviceError(c, err, services.ErrTripNotFound)
	}
	return c.JSON(fiber.Map{"message": "Trip deleted"})
}
