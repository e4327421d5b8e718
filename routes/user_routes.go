package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shamilaliyev/DreamStay/handlers"
	"github.com/shamilaliyev/DreamStay/middleware"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	users := api.Group("/users", middleware.Protected())
	users.Get("/find-by-email", handlers.FindUserByEmail)
}
