package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kervanapp/kervan-backend/internal/authn"
	"github.com/kervanapp/kervan-backend/internal/authz"
	"github.com/kervanapp/kervan-backend/internal/dto"
)

// StaffRequired mounts the admin surface: the dashboard capability is the
// coarsest staff grant (ADMIN or MODERATOR). Individual admin operations
// re-check their own capability against the engine inside the services.
func StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authn.Actor(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !authz.Decide(authz.ActorFromUser(user), authz.CapAdminDashboard, nil) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Staff access required",
			})
		}
		return c.Next()
	}
}
