package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/authn"
	"github.com/kervanapp/kervan-backend/internal/dto"
	"github.com/kervanapp/kervan-backend/internal/models"
)

// ActorGate hydrates the current user from the JWT subject and enforces the
// coarse ban rule: a banned user is blocked on every protected route except
// logout. Fine-grained per-capability checks live in the authorization
// engine, not here.
func ActorGate(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := authn.UserIDFromToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if user.IsBanned && c.Path() != "/api/auth/logout" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Account suspended",
			})
		}

		authn.SetActor(c, &user)
		return c.Next()
	}
}
