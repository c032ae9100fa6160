package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spirolink/SpiroLink-website-sub000/controller"
)

func RegisterPaymentRoutes(app *fiber.App, pc *controller.PaymentController) {
	api := app.Group("/api")
	p := api.Group("/payment")

	p.Post("/stripe/create-intent", pc.CreateIntent)
	p.Post("/stripe/webhook", pc.Webhook)
	p.Get("/status/:paymentId", pc.Status)
}
