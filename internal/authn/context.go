package authn

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kervanapp/kervan-backend/internal/models"
)

const actorKey = "actor"

// UserIDFromToken extracts the user UUID from JWT claims in context.
func UserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// SetActor stores the hydrated user row for downstream handlers.
func SetActor(c *fiber.Ctx, user *models.User) {
	c.Locals(actorKey, user)
}

// Actor returns the user row stored by the gate middleware.
func Actor(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(actorKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("no actor in context")
	}
	return user, nil
}
