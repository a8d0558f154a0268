package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contest-hub-service/middleware"
	"contest-hub-service/services"
)

func SetupPaymentRoutes(app *fiber.App, paymentService *services.PaymentService) {
	userCtx := middleware.UserContextMiddleware()

	app.Post("/create-checkout-session", userCtx, paymentService.CreateCheckoutSession)
	app.Patch("/payment-success", userCtx, paymentService.ConfirmPayment)
	app.Get("/registrations/check/:contestId", userCtx, paymentService.CheckRegistration)
	app.Get("/participate-contest/:email", userCtx, paymentService.GetParticipations)
}
