package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shamilaliyev/DreamStay/handlers"
	"github.com/shamilaliyev/DreamStay/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Delete("/conversations/:userId/:partnerId", handlers.AdminEraseConversation)
}
