package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spirolink/SpiroLink-website-sub000/controller"
)

func RegisterChatRoutes(app *fiber.App, cc *controller.ChatController) {
	api := app.Group("/api")
	api.Post("/chat", cc.Send)
}
