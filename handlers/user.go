package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contest-hub-service/middleware"
	"contest-hub-service/models"
	"contest-hub-service/services"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	userCtx := middleware.UserContextMiddleware()
	admin := middleware.RequireRole(models.RoleAdmin)

	// 🔓 Public leaderboard
	app.Get("/top-users", userService.GetTopUsers)

	// 🔐 Authenticated routes
	app.Post("/users", userCtx, userService.SaveUser) // upsert on login
	app.Get("/users/me/badges", userCtx, userService.GetMyBadges)
	app.Get("/users/:email", userCtx, userService.GetUserByEmail)
	app.Patch("/users/:id", userCtx, userService.UpdateUserProfile)

	// 🔒 Admin user management
	app.Get("/users", userCtx, admin, userService.GetUsers)
	app.Patch("/users/:id/role", userCtx, admin, userService.UpdateUserRole)
}
