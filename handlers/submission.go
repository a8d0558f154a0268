package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contest-hub-service/middleware"
	"contest-hub-service/models"
	"contest-hub-service/services"
)

func SetupSubmissionRoutes(app *fiber.App, submissionService *services.SubmissionService, winnerService *services.WinnerService) {
	userCtx := middleware.UserContextMiddleware()
	creator := middleware.RequireRole(models.RoleCreator, models.RoleAdmin)

	// 🔓 Public winner feed
	app.Get("/winners", winnerService.GetWinners)
	app.Get("/winners/stream", winnerService.StreamWinnersSSE)

	// 🔐 Authenticated routes
	app.Post("/submissions", userCtx, submissionService.CreateSubmission)
	app.Get("/submissions/:email", userCtx, creator, submissionService.GetSubmissionsByCreator)
	app.Get("/contests/:id/submissions", userCtx, creator, submissionService.GetSubmissionsForContest)
}
