package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shamilaliyev/DreamStay/handlers"
	"github.com/shamilaliyev/DreamStay/middleware"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	messages := api.Group("/messages", middleware.Protected())
	messages.Get("/partners", handlers.GetChatPartners)
	messages.Get("/chat/:partnerId", handlers.GetChatHistory)
	messages.Post("/send", handlers.SendMessage)
	messages.Get("/search", handlers.SearchMessages)
	messages.Delete("/conversations/:partnerId", handlers.DeleteConversation)

	blocks := api.Group("/blocks", middleware.Protected())
	blocks.Post("", handlers.BlockUser)
	blocks.Delete("/:targetId", handlers.UnblockUser)
	blocks.Get("/:targetId", handlers.GetBlockStatus)
}
