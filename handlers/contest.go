package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contest-hub-service/middleware"
	"contest-hub-service/models"
	"contest-hub-service/services"
)

// Middleware is attached per route, never mounted at "/": a bare-prefix
// group would gate every route registered after it, across all Setup
// calls.
func SetupContestRoutes(app *fiber.App, contestService *services.ContestService, winnerService *services.WinnerService) {
	userCtx := middleware.UserContextMiddleware()
	creator := middleware.RequireRole(models.RoleCreator, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	// 🔓 Public routes — only approved contests are browsable
	app.Get("/contests/type/approved", contestService.GetApprovedContests)
	app.Get("/popular-contests", contestService.GetPopularContests)
	app.Get("/contests/:id", contestService.GetContestByID)

	// 🔐 Authenticated routes
	app.Post("/contests", userCtx, creator, contestService.CreateContest)
	app.Get("/contests/email/:email", userCtx, creator, contestService.GetContestsByCreator)
	app.Patch("/contests/:id", userCtx, creator, contestService.UpdateContest)
	app.Get("/contests/winner/:email", userCtx, contestService.GetWinningContests)

	// Winner declaration — creator action, atomic
	app.Post("/contests/:id/declare-winner", userCtx, creator, winnerService.DeclareWinner)

	// 🔒 Admin moderation
	app.Get("/contests", userCtx, admin, contestService.GetAllContests)
	app.Patch("/contests/:id/status", userCtx, admin, contestService.UpdateContestStatus)
	app.Delete("/contests/:id", userCtx, admin, contestService.DeleteContest)
}
