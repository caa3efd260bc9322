package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/kervanapp/kervan-backend/internal/config"
	"github.com/kervanapp/kervan-backend/internal/handlers"
	"github.com/kervanapp/kervan-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	tripHandler *handlers.TripHandler,
	requestHandler *handlers.RequestHandler,
	reviewHandler *handlers.ReviewHandler,
	messageHandler *handlers.MessageHandler,
	moderationHandler *handlers.ModerationHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Public browsing: active trips and searching requests are visible
	// without a session. Reviews for a user are public too.
	api.Get("/trips", tripHandler.ListPublic)
	api.Get("/requests", requestHandler.ListPublic)
	api.Get("/users/:id/reviews", reviewHandler.ListForUser)

	// Everything below requires a valid JWT plus a hydrated actor.
	// ActorGate rejects banned sessions everywhere except logout.
	session := api.Group("", middleware.JWTProtected(cfg), middleware.ActorGate(db))

	session.Post("/auth/logout", authHandler.Logout)
	session.Put("/auth/profile", authHandler.UpdateProfile)
	session.Delete("/auth/account", authHandler.DeleteAccount)

	session.Post("/trips", tripHandler.Create)
	session.Get("/trips/mine", tripHandler.ListOwn)
	session.Get("/trips/:id", tripHandler.Get)
	session.Put("/trips/:id", tripHandler.Update)
	session.Delete("/trips/:id", tripHandler.Delete)

	session.Post("/requests", requestHandler.Create)
	session.Get("/requests/mine", requestHandler.ListOwn)
	session.Get("/requests/:id", requestHandler.Get)
	session.Put("/requests/:id", requestHandler.Update)
	session.Delete("/requests/:id", requestHandler.Delete)

	session.Post("/reviews", reviewHandler.Create)
	session.Put("/reviews/:id", reviewHandler.Update)
	session.Delete("/reviews/:id", reviewHandler.Delete)

	session.Post("/messages", messageHandler.Send)
	session.Get("/messages/conversation/:userId", messageHandler.Conversation)
	session.Get("/messages/:id", messageHandler.Get)
	session.Delete("/messages/:id", messageHandler.Delete)

	session.Post("/reports", moderationHandler.CreateReport)
	session.Get("/reports/:id", moderationHandler.GetReport)

	// Staff panel: admins and moderators. The per-capability checks in
	// the services decide what each role may actually do.
	admin := session.Group("/admin", middleware.StaffRequired())
	admin.Get("/overview", adminHandler.Overview)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users/:id/ban", adminHandler.BanUser)
	admin.Post("/users/:id/unban", adminHandler.UnbanUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Put("/users/:id/roles", adminHandler.UpdateRoles)
	admin.Get("/reports", moderationHandler.ListReports)
	admin.Put("/reports/:id", moderationHandler.ProcessReport)
	admin.Delete("/content/:kind/:id", moderationHandler.RemoveContent)
	admin.Get("/audit-logs", adminHandler.ListAuditLogs)
	admin.Get("/export/users", adminHandler.ExportUsers)
	admin.Delete("/trips/:id", adminHandler.ForceDeleteTrip)
}
