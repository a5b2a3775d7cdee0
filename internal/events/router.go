package events

import (
	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	events := router.Group("/events")
	{
		events.GET("", controller.GetAllEvents)            // GET /api/v1/events - Browse events
		events.POST("", controller.CreateEvent)            // POST /api/v1/events - Create event
		events.GET("/:eventId", controller.GetEvent)       // GET /api/v1/events/:eventId - Event with ticket categories
		events.PUT("/:eventId", controller.UpdateEvent)    // PUT /api/v1/events/:eventId - Update event
		events.DELETE("/:eventId", controller.DeleteEvent) // DELETE /api/v1/events/:eventId - Delete event
	}
}
