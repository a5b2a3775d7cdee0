package ticketcategories

import (
	"github.com/gin-gonic/gin"
)

func SetupTicketCategoryRoutes(router *gin.RouterGroup, controller Controller) {
	eventCategories := router.Group("/events/:eventId/ticket-categories")
	{
		eventCategories.GET("", controller.ListTicketCategories)                     // GET /api/v1/events/:eventId/ticket-categories
		eventCategories.POST("", controller.CreateTicketCategory)                    // POST /api/v1/events/:eventId/ticket-categories
		eventCategories.GET("/:categoryId/draft", controller.GetTicketCategoryDraft) // GET /api/v1/events/:eventId/ticket-categories/:categoryId/draft
		eventCategories.PUT("/:categoryId", controller.UpdateTicketCategory)         // PUT /api/v1/events/:eventId/ticket-categories/:categoryId
		eventCategories.DELETE("/:categoryId", controller.DeleteTicketCategory)      // DELETE /api/v1/events/:eventId/ticket-categories/:categoryId
	}

	// Stateless form helpers
	helpers := router.Group("/ticket-categories")
	{
		helpers.POST("/validate", controller.ValidateTicketCategory) // POST /api/v1/ticket-categories/validate
		helpers.GET("/suggestions", controller.GetSuggestions)       // GET /api/v1/ticket-categories/suggestions
	}
}
